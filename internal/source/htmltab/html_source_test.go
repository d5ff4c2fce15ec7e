package htmltab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparcsetl/internal/domain"
)

const auditPage = `<html><body>
<table><tr><td class="c systemtitle3">SPARCS Compliance Audit</td></tr>
<tr><td class="r systemtitle4">Published 2023-06-01</td></tr></table>
<table class="table">
  <thead>
    <tr><th>File<br>Type</th><th>Data</th></tr>
  </thead>
  <tbody>
    <tr><td>Type A</td><td>D1</td></tr>
    <tr><td></td><td>D2</td></tr>
  </tbody>
</table>
<table class="other"><tr><td>decorative</td></tr></table>
</body></html>`

func writeTempHTML(t *testing.T, content string) *domain.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Y2023_AUDIT_PFI1.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &domain.Document{ID: "Y2023_AUDIT_PFI1", Path: path}
}

func TestExtract_AuditPage(t *testing.T) {
	src := NewSource(DefaultTableClass)
	doc := writeTempHTML(t, auditPage)

	grids, err := src.Extract(context.Background(), doc)
	require.NoError(t, err)

	// Only the table carrying the configured class is extracted.
	require.Len(t, grids, 1)
	grid := grids[0]
	require.Len(t, grid, 3)

	// <br> inside the header cell survives as a line break, so the
	// label canonicalizes the same way as in the PDF reports.
	assert.Equal(t, []string{"File\nType", "Data"}, grid[0])
	assert.Equal(t, []string{"Type A", "D1"}, grid[1])
	assert.Equal(t, []string{"", "D2"}, grid[2])

	require.Len(t, doc.Annotations, 2)
	assert.Equal(t, domain.Annotation{Column: "REPORT_TYPE", Value: "SPARCS Compliance Audit"}, doc.Annotations[0])
	assert.Equal(t, domain.Annotation{Column: "DATE_PUBLISHED", Value: "Published 2023-06-01"}, doc.Annotations[1])
}

func TestExtract_MissingMetadataDefaults(t *testing.T) {
	src := NewSource(DefaultTableClass)
	doc := writeTempHTML(t, `<html><body>
<table class="table"><tr><th>File Type</th></tr><tr><td>Type A</td></tr></table>
</body></html>`)

	_, err := src.Extract(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, doc.Annotations, 2)
	assert.Equal(t, "Unknown Report Type", doc.Annotations[0].Value)
	assert.Equal(t, "Unknown Date", doc.Annotations[1].Value)
}

func TestExtract_NoMatchingTables(t *testing.T) {
	src := NewSource(DefaultTableClass)
	doc := writeTempHTML(t, `<html><body><p>nothing here</p></body></html>`)

	grids, err := src.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, grids)
}

func TestExtract_MissingFile(t *testing.T) {
	src := NewSource(DefaultTableClass)
	doc := &domain.Document{ID: "gone", Path: filepath.Join(t.TempDir(), "gone.html")}

	_, err := src.Extract(context.Background(), doc)
	assert.Error(t, err)
}
