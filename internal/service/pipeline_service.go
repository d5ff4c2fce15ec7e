package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"sparcsetl/internal/aggregate"
	"sparcsetl/internal/domain"
	"sparcsetl/internal/extract"
	"sparcsetl/internal/source"
)

// PipelineService runs the extraction pipeline: discover documents, fan
// extraction out across them, and merge the surviving tables into one
// dataset. Documents share no state, so they are processed concurrently;
// the aggregator's deterministic ordering makes the output independent of
// scheduling.
type PipelineService struct {
	sources     *source.Factory
	rules       extract.Rules
	extractor   *extract.Extractor
	concurrency int
}

// NewPipelineService creates a pipeline over the given grid sources.
func NewPipelineService(sources *source.Factory, rules extract.Rules, concurrency int) *PipelineService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PipelineService{
		sources:     sources,
		rules:       rules,
		extractor:   extract.NewExtractor(rules),
		concurrency: concurrency,
	}
}

// DiscoverDocuments lists the supported files directly under dir and
// parses their provenance. Files of unsupported formats are skipped; a
// directory yielding no documents at all is an error.
func (s *PipelineService) DiscoverDocuments(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", dir, err)
	}

	var docs []domain.Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if _, ok := domain.FormatByExtension[ext]; !ok {
			continue
		}
		docs = append(docs, source.ParseProvenance(filepath.Join(dir, e.Name())))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDocuments, dir)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Run processes every document and merges the accepted tables. The
// returned report is populated even when the run fails, so rejections
// stay auditable; the only fatal extraction outcome is zero surviving
// rows. Cancelling the context abandons the run without partial output.
func (s *PipelineService) Run(ctx context.Context, docs []domain.Document) (*domain.Dataset, *domain.ProcessingReport, error) {
	rep := domain.NewProcessingReport()
	rep.DocumentsSeen = len(docs)
	log.Printf("pipeline: run %s processing %d documents (concurrency=%d)",
		rep.RunID, len(docs), s.concurrency)

	var (
		mu     sync.Mutex
		tables []*domain.Table
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, s.concurrency)

	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		doc := &docs[i]

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			accepted, f, err := s.processDocument(ctx, doc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.DocumentsFailed++
				rep.Notef("doc %s: %v", doc.ID, err)
				return
			}
			rep.TablesExtracted += f.TablesExtracted
			rep.TablesAccepted += len(accepted)
			rep.Rejections = append(rep.Rejections, f.Rejections...)
			rep.TablesRejected += len(f.Rejections)
			rep.CoercionFailures = append(rep.CoercionFailures, f.CoercionFailures...)
			rep.Notes = append(rep.Notes, f.Notes...)
			if len(accepted) == 0 {
				rep.DocumentsEmpty++
			}
			tables = append(tables, accepted...)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	ds, err := aggregate.Merge(tables, s.rules.MandatoryColumn, rep)
	rep.Finalize()
	if err != nil {
		return nil, rep, err
	}
	log.Printf("pipeline: run %s produced %d rows across %d columns (%d tables accepted, %d rejected)",
		rep.RunID, rep.FinalRowCount, len(ds.Columns), rep.TablesAccepted, rep.TablesRejected)
	return ds, rep, nil
}

// processDocument extracts one document's grids and normalizes them. A
// source failure counts against the document, never the run.
func (s *PipelineService) processDocument(ctx context.Context, doc *domain.Document) ([]*domain.Table, *extract.Findings, error) {
	src, err := s.sources.ForFile(doc.Path)
	if err != nil {
		return nil, nil, err
	}
	grids, err := src.Extract(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("extract grids: %w", err)
	}

	f := &extract.Findings{}
	tables := s.extractor.ExtractTables(doc, grids, f)
	return tables, f, nil
}
