package htmltab

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"sparcsetl/internal/domain"
)

// Annotation columns contributed by audit report pages, already in
// canonical form, and the values used when a page omits the cells.
// DefaultTableClass is the class the report renderer puts on its data
// tables.
const DefaultTableClass = "table"

const (
	reportTypeColumn    = "REPORT_TYPE"
	datePublishedColumn = "DATE_PUBLISHED"

	defaultReportType    = "Unknown Report Type"
	defaultDatePublished = "Unknown Date"
)

// Source reads tables out of HTML report pages. Audit pages carry their
// report type and publish date in styled cells outside the data table;
// those become document annotations.
type Source struct {
	tableClass string
}

// NewSource creates an HTML grid source extracting tables that carry the
// given class attribute.
func NewSource(tableClass string) *Source {
	return &Source{tableClass: tableClass}
}

// Extract parses the page and returns one grid per matching table. The
// page-level metadata cells, when present, are attached to the document
// as annotation columns.
func (s *Source) Extract(ctx context.Context, doc *domain.Document) ([]domain.CellGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("open html %s: %w", doc.Path, err)
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", doc.Path, err)
	}

	doc.Annotations = pageAnnotations(root)
	return s.collectTables(root), nil
}

// collectTables walks the node tree and parses every table carrying the
// configured class. Tables do not nest on these pages, so the walk does
// not descend into a matched table.
func (s *Source) collectTables(root *html.Node) []domain.CellGrid {
	var grids []domain.CellGrid
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" && hasClass(n, s.tableClass) {
			if grid := parseTable(n); len(grid) > 0 {
				grids = append(grids, grid)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return grids
}

// parseTable extracts rows from thead, tbody, tfoot, or direct tr
// children. Rows without any cell elements are skipped.
func parseTable(tableNode *html.Node) domain.CellGrid {
	var grid domain.CellGrid
	appendRow := func(tr *html.Node) {
		if row := parseRow(tr); len(row) > 0 {
			grid = append(grid, row)
		}
	}
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					appendRow(tr)
				}
			}
		case "tr":
			appendRow(c)
		}
	}
	return grid
}

func parseRow(tr *html.Node) []string {
	var row []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			row = append(row, textContent(c))
		}
	}
	return row
}

// pageAnnotations reads the report-type and publish-date cells the audit
// pages place above the table. A page without them gets the defaults.
func pageAnnotations(root *html.Node) []domain.Annotation {
	reportType := defaultReportType
	if td := findCell(root, "c", "systemtitle3"); td != nil {
		reportType = textContent(td)
	}
	datePublished := defaultDatePublished
	if td := findCell(root, "r", "systemtitle4"); td != nil {
		datePublished = textContent(td)
	}
	return []domain.Annotation{
		{Column: reportTypeColumn, Value: reportType},
		{Column: datePublishedColumn, Value: datePublished},
	}
}

// findCell returns the first td carrying all of the given class tokens.
func findCell(n *html.Node, classes ...string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "td" {
		all := true
		for _, c := range classes {
			if !hasClass(n, c) {
				all = false
				break
			}
		}
		if all {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findCell(c, classes...); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == name {
				return true
			}
		}
	}
	return false
}

// textContent extracts the text of a node and its descendants. Line
// breaks are preserved so multi-line header cells canonicalize the same
// way they do in the PDF reports.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
