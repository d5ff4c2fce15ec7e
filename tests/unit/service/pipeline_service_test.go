package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sparcsetl/internal/domain"
	"sparcsetl/internal/extract"
	"sparcsetl/internal/service"
	"sparcsetl/internal/source"
	"sparcsetl/mocks"
)

func docMatcher(id string) interface{} {
	return mock.MatchedBy(func(d *domain.Document) bool { return d.ID == id })
}

func newPipeline(src *mocks.MockGridSource, concurrency int) *service.PipelineService {
	factory := source.NewFactory()
	factory.Register(domain.FormatPDF, src)
	return service.NewPipelineService(factory, extract.DefaultRules(), concurrency)
}

func complianceGrid() domain.CellGrid {
	return domain.CellGrid{
		{"File\nType", "Discharge Month", "PCT_OF_PREVYRAVG_SUBMTD_"},
		{"Type A", "Jan", "50%"},
		{"", "Feb", "75.5%"},
	}
}

func doc(id string) domain.Document {
	return domain.Document{ID: id, Path: id + ".pdf", Facility: "PFI1", Period: "2023"}
}

func TestPipelineRun_MergesAcrossDocuments(t *testing.T) {
	src := new(mocks.MockGridSource)
	src.On("Extract", mock.Anything, docMatcher("a")).Return([]domain.CellGrid{complianceGrid()}, nil)
	src.On("Extract", mock.Anything, docMatcher("b")).Return([]domain.CellGrid{complianceGrid()}, nil)

	svc := newPipeline(src, 2)
	ds, rep, err := svc.Run(context.Background(), []domain.Document{doc("a"), doc("b")})
	require.NoError(t, err)

	assert.Equal(t, 4, rep.FinalRowCount)
	assert.Equal(t, 2, rep.DocumentsSeen)
	assert.Equal(t, 2, rep.TablesAccepted)
	assert.Len(t, ds.Rows, 4)
	src.AssertExpectations(t)
}

// A document whose tables are all rejected contributes diagnostics but
// never stops its siblings.
func TestPipelineRun_BadDocumentDoesNotAbortRun(t *testing.T) {
	badGrid := domain.CellGrid{
		{"Unrelated", "Columns"},
		{"a", "b"},
	}
	src := new(mocks.MockGridSource)
	src.On("Extract", mock.Anything, docMatcher("bad")).Return([]domain.CellGrid{badGrid, badGrid}, nil)
	src.On("Extract", mock.Anything, docMatcher("good")).Return([]domain.CellGrid{complianceGrid()}, nil)

	svc := newPipeline(src, 2)
	ds, rep, err := svc.Run(context.Background(), []domain.Document{doc("bad"), doc("good")})
	require.NoError(t, err)

	assert.Len(t, ds.Rows, 2)
	assert.Equal(t, 1, rep.DocumentsEmpty)
	assert.Equal(t, 2, rep.TablesRejected)
	require.Len(t, rep.Rejections, 2)
	for _, r := range rep.Rejections {
		assert.Equal(t, "bad", r.DocumentID)
		assert.Equal(t, domain.RejectMissingKeyColumn, r.Reason)
	}
}

func TestPipelineRun_SourceErrorCountsDocumentFailed(t *testing.T) {
	src := new(mocks.MockGridSource)
	src.On("Extract", mock.Anything, docMatcher("broken")).Return(nil, errors.New("corrupt xref table"))
	src.On("Extract", mock.Anything, docMatcher("good")).Return([]domain.CellGrid{complianceGrid()}, nil)

	svc := newPipeline(src, 2)
	ds, rep, err := svc.Run(context.Background(), []domain.Document{doc("broken"), doc("good")})
	require.NoError(t, err)

	assert.Len(t, ds.Rows, 2)
	assert.Equal(t, 1, rep.DocumentsFailed)
	require.NotEmpty(t, rep.Notes)
	assert.Contains(t, rep.Notes[0], "corrupt xref table")
}

func TestPipelineRun_AllRejectedIsFatal(t *testing.T) {
	badGrid := domain.CellGrid{{"Unrelated"}, {"x"}}
	src := new(mocks.MockGridSource)
	src.On("Extract", mock.Anything, mock.Anything).Return([]domain.CellGrid{badGrid}, nil)

	svc := newPipeline(src, 2)
	ds, rep, err := svc.Run(context.Background(), []domain.Document{doc("a"), doc("b")})

	assert.ErrorIs(t, err, domain.ErrNoDataProduced)
	assert.Nil(t, ds)
	// The report survives the failure so rejections stay auditable.
	require.NotNil(t, rep)
	assert.Equal(t, 2, rep.TablesRejected)
}

func TestPipelineRun_DeterministicAcrossScheduling(t *testing.T) {
	grids := map[string][]domain.CellGrid{
		"a": {complianceGrid()},
		"b": {complianceGrid(), complianceGrid()},
		"c": {complianceGrid()},
	}
	docs := []domain.Document{doc("c"), doc("a"), doc("b")}

	run := func(concurrency int) *domain.Dataset {
		src := new(mocks.MockGridSource)
		for id, g := range grids {
			src.On("Extract", mock.Anything, docMatcher(id)).Return(g, nil)
		}
		svc := newPipeline(src, concurrency)
		ds, _, err := svc.Run(context.Background(), docs)
		require.NoError(t, err)
		return ds
	}

	serial := run(1)
	parallel := run(4)
	assert.Equal(t, serial.Columns, parallel.Columns)
	assert.Equal(t, serial.Rows, parallel.Rows)
}

func TestPipelineRun_Cancellation(t *testing.T) {
	src := new(mocks.MockGridSource)
	src.On("Extract", mock.Anything, mock.Anything).Return([]domain.CellGrid{complianceGrid()}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newPipeline(src, 2)
	ds, rep, err := svc.Run(ctx, []domain.Document{doc("a")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ds)
	assert.Nil(t, rep)
}

func TestDiscoverDocuments_EmptyDir(t *testing.T) {
	svc := newPipeline(new(mocks.MockGridSource), 1)
	_, err := svc.DiscoverDocuments(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}
