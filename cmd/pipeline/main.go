package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"sparcsetl/internal/config"
	"sparcsetl/internal/csvexport"
	"sparcsetl/internal/domain"
	"sparcsetl/internal/email/noop"
	"sparcsetl/internal/email/ses"
	"sparcsetl/internal/extract"
	"sparcsetl/internal/fetch"
	"sparcsetl/internal/port"
	"sparcsetl/internal/repository/postgres"
	"sparcsetl/internal/service"
	"sparcsetl/internal/source"
	"sparcsetl/internal/source/htmltab"
	"sparcsetl/internal/source/pdf"
	"sparcsetl/internal/source/xlsx"
	s3storage "sparcsetl/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	fetchReports := flag.Bool("fetch", false, "download reports from the listing page before extraction")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fetchReports {
		fetcher := fetch.NewFetcher(cfg.Fetch.ListingURL, cfg.Fetch.OutputDir)
		if _, err := fetcher.Pull(ctx); err != nil {
			return fmt.Errorf("fetch reports: %w", err)
		}
	}

	sources := source.NewFactory()
	sources.Register(domain.FormatPDF, pdf.NewSource())
	sources.Register(domain.FormatHTML, htmltab.NewSource(htmltab.DefaultTableClass))
	sources.Register(domain.FormatXLSX, xlsx.NewSource())

	rules := extract.DefaultRules()
	svc := service.NewPipelineService(sources, rules, cfg.Pipeline.Concurrency)

	publisher, cleanup, err := buildPublisher(cfg, rules)
	if err != nil {
		return err
	}
	defer cleanup()

	docs, err := svc.DiscoverDocuments(cfg.Pipeline.InputDir)
	if err != nil {
		return err
	}

	ds, rep, runErr := svc.Run(ctx, docs)
	if runErr != nil {
		// The report is still worth keeping when the run yields nothing.
		if rep != nil {
			if werr := writeReport(cfg.Pipeline.ReportPath, rep); werr != nil {
				log.Printf("pipeline: write report: %v", werr)
			}
			if perr := publisher.RecordFailure(ctx, rep); perr != nil {
				log.Printf("pipeline: record failed run: %v", perr)
			}
		}
		if errors.Is(runErr, domain.ErrNoDataProduced) {
			return fmt.Errorf("run %s: %w", rep.RunID, runErr)
		}
		return runErr
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Pipeline.DatasetPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := csvexport.ExportFile(cfg.Pipeline.DatasetPath, ds); err != nil {
		return fmt.Errorf("export dataset: %w", err)
	}
	if err := writeReport(cfg.Pipeline.ReportPath, rep); err != nil {
		return err
	}
	log.Printf("pipeline: wrote %s and %s", cfg.Pipeline.DatasetPath, cfg.Pipeline.ReportPath)

	return publisher.Publish(ctx, ds, rep, cfg.Pipeline.DatasetPath, cfg.Pipeline.ReportPath)
}

// buildPublisher wires whichever sinks the configuration enables. The
// returned cleanup closes the warehouse connection when one was opened.
func buildPublisher(cfg *config.Config, rules extract.Rules) (*service.Publisher, func(), error) {
	cleanup := func() {}

	var (
		runs    port.RunRepository
		subs    port.SubmissionRepository
		storage port.ObjectStorage
		sender  port.EmailSender
	)

	if cfg.Pipeline.LoadDB {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect warehouse: %w", err)
		}
		cleanup = func() { _ = db.Close() }
		runs = postgres.NewRunRepo(db)
		subs = postgres.NewSubmissionRepo(db)
	}

	if cfg.Pipeline.Publish {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, cleanup, fmt.Errorf("initialize s3 client: %w", err)
		}
		storage = s3Client
	}

	if cfg.Pipeline.Notify {
		switch cfg.Email.Provider {
		case "ses":
			s, err := ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.ToAddress)
			if err != nil {
				return nil, cleanup, fmt.Errorf("initialize ses sender: %w", err)
			}
			sender = s
		default:
			sender = noop.NewNoopSender()
		}
	}

	return service.NewPublisher(runs, subs, storage, sender, rules, &cfg.S3), cleanup, nil
}

func writeReport(path string, rep *domain.ProcessingReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return rep.WriteText(f)
}
