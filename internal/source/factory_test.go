package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparcsetl/internal/domain"
)

type stubSource struct{}

func (stubSource) Extract(context.Context, *domain.Document) ([]domain.CellGrid, error) {
	return nil, nil
}

func TestFactory_ForFile(t *testing.T) {
	f := NewFactory()
	pdfSrc := stubSource{}
	f.Register(domain.FormatPDF, pdfSrc)

	src, err := f.ForFile("pdfs/Y2023_REPORT_PFI1.PDF")
	require.NoError(t, err)
	assert.Equal(t, pdfSrc, src)
}

func TestFactory_UnknownExtension(t *testing.T) {
	f := NewFactory()
	_, err := f.ForFile("notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestFactory_UnregisteredFormat(t *testing.T) {
	f := NewFactory()
	_, err := f.ForFile("report.html")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
