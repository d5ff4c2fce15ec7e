package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sparcsetl/internal/config"
	"sparcsetl/internal/domain"
	"sparcsetl/internal/extract"
	"sparcsetl/internal/port"
)

// Publisher drives the optional sinks after a run: the warehouse load,
// artifact publication to object storage, and the completion
// notification. A nil dependency disables its sink, so the pipeline runs
// unchanged with any subset configured.
type Publisher struct {
	runs    port.RunRepository
	subs    port.SubmissionRepository
	storage port.ObjectStorage
	email   port.EmailSender
	rules   extract.Rules
	s3cfg   *config.S3Config
}

// NewPublisher creates a publisher over whichever sinks are non-nil.
func NewPublisher(
	runs port.RunRepository,
	subs port.SubmissionRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	rules extract.Rules,
	s3cfg *config.S3Config,
) *Publisher {
	return &Publisher{
		runs:    runs,
		subs:    subs,
		storage: storage,
		email:   email,
		rules:   rules,
		s3cfg:   s3cfg,
	}
}

// Publish records the completed run and pushes the artifacts through
// every configured sink. Sink errors abort publication; the dataset and
// report files on disk are already written by then and stay valid.
func (p *Publisher) Publish(ctx context.Context, ds *domain.Dataset, rep *domain.ProcessingReport, datasetPath, reportPath string) error {
	if p.runs != nil {
		if err := p.recordRun(ctx, ds, rep, domain.RunStatusCompleted); err != nil {
			return err
		}
	}
	var datasetKey string
	if p.storage != nil {
		key, err := p.uploadArtifacts(ctx, rep.RunID, datasetPath, reportPath)
		if err != nil {
			return err
		}
		datasetKey = key
	}
	if p.email != nil {
		summary := port.RunSummary{
			RunID:           rep.RunID.String(),
			FinalRows:       rep.FinalRowCount,
			TablesRejected:  rep.TablesRejected,
			DocumentsFailed: rep.DocumentsFailed,
			DatasetPath:     datasetPath,
		}
		if datasetKey != "" {
			url, err := p.storage.GetPresignedURL(ctx, p.s3cfg.Bucket, datasetKey, p.s3cfg.PresignExpiry)
			if err != nil {
				// The notification is still worth sending without the link.
				log.Printf("publisher: presign dataset link: %v", err)
			} else {
				summary.DatasetURL = url
			}
		}
		if err := p.email.SendRunSummary(ctx, summary); err != nil {
			return fmt.Errorf("send run summary: %w", err)
		}
	}
	return nil
}

// RecordFailure persists a failed run so the warehouse history shows it.
// Without a run store this is a no-op.
func (p *Publisher) RecordFailure(ctx context.Context, rep *domain.ProcessingReport) error {
	if p.runs == nil || rep == nil {
		return nil
	}
	return p.recordRun(ctx, nil, rep, domain.RunStatusFailed)
}

func (p *Publisher) recordRun(ctx context.Context, ds *domain.Dataset, rep *domain.ProcessingReport, status domain.RunStatus) error {
	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	run := &domain.Run{
		ID:            rep.RunID,
		StartedAt:     rep.StartedAt,
		FinishedAt:    rep.FinishedAt,
		Status:        status,
		DocumentCount: rep.DocumentsSeen,
		RowCount:      rep.FinalRowCount,
		Report:        reportJSON,
	}
	if err := p.runs.Create(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	if p.subs == nil || ds == nil {
		return nil
	}
	subs := p.buildSubmissions(ds, rep.RunID)
	if err := p.subs.BulkInsert(ctx, subs); err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}
	log.Printf("publisher: loaded %d rows into warehouse for run %s", len(subs), rep.RunID)
	return nil
}

// buildSubmissions flattens dataset rows for the warehouse. The lifted
// columns fall back to the empty string when absent; the complete row is
// kept as JSON either way.
func (p *Publisher) buildSubmissions(ds *domain.Dataset, runID uuid.UUID) []domain.FacilitySubmission {
	colIdx := make(map[string]int, len(ds.Columns))
	for i, c := range ds.Columns {
		colIdx[c] = i
	}
	pick := func(row []domain.Value, col string) string {
		if i, ok := colIdx[col]; ok {
			return row[i].String()
		}
		return ""
	}

	now := time.Now().UTC()
	subs := make([]domain.FacilitySubmission, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		fields := make(map[string]string, len(ds.Columns))
		for i, c := range ds.Columns {
			if row[i].IsMissing() {
				continue
			}
			fields[c] = row[i].String()
		}
		fieldsJSON, _ := json.Marshal(fields)

		subs = append(subs, domain.FacilitySubmission{
			ID:             uuid.New(),
			RunID:          runID,
			Facility:       pick(row, p.rules.FacilityColumn),
			AuditYear:      pick(row, p.rules.PeriodColumn),
			FileType:       pick(row, p.rules.KeyColumn),
			DischargeMonth: pick(row, p.rules.MandatoryColumn),
			Fields:         fieldsJSON,
			CreatedAt:      now,
		})
	}
	return subs
}

// uploadArtifacts pushes the dataset and report files under a run-scoped
// key prefix and returns the dataset's object key.
func (p *Publisher) uploadArtifacts(ctx context.Context, runID uuid.UUID, datasetPath, reportPath string) (string, error) {
	uploads := []struct {
		path        string
		contentType string
	}{
		{datasetPath, "text/csv; charset=utf-8"},
		{reportPath, "text/plain; charset=utf-8"},
	}
	var datasetKey string
	for _, u := range uploads {
		f, err := os.Open(u.path)
		if err != nil {
			return "", fmt.Errorf("open artifact %s: %w", u.path, err)
		}
		key := path.Join(p.s3cfg.KeyPrefix, runID.String(), filepath.Base(u.path))
		out, err := p.storage.Upload(ctx, port.UploadInput{
			Bucket:      p.s3cfg.Bucket,
			Key:         key,
			Body:        f,
			ContentType: u.contentType,
		})
		_ = f.Close()
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", key, err)
		}
		if u.path == datasetPath {
			datasetKey = key
		}
		log.Printf("publisher: uploaded %s to %s", filepath.Base(u.path), out.Location)
	}
	return datasetKey, nil
}
