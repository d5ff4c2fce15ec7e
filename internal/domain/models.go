package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UnknownPeriod is the sentinel recorded when a document's filename does not
// encode an audit period. It is never silently replaced by a guess.
const UnknownPeriod = "unknown"

// CellGrid is a grid of raw cell text as produced by a grid source. The
// first row is provisionally the header; rows may be ragged.
type CellGrid [][]string

// Annotation is a key/value pair a grid source attaches to a document,
// such as page-level metadata scraped alongside the tables. The column
// name is already canonical.
type Annotation struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Document carries the provenance of one input file. Period and Facility
// are parsed from the filename; Annotations are contributed by the source.
type Document struct {
	ID          string       `json:"id"`
	Path        string       `json:"path"`
	Facility    string       `json:"facility"`
	Period      string       `json:"period"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Table is a normalized table: canonical column labels plus column-major
// cell values. All columns have equal length, and after reconciliation the
// key column contains no missing values.
type Table struct {
	Doc     *Document
	Index   int
	Columns []string
	Cells   [][]Value
}

// NumRows returns the number of data rows in the table.
func (t *Table) NumRows() int {
	if len(t.Cells) == 0 {
		return 0
	}
	return len(t.Cells[0])
}

// Column returns the values of the named column and whether it exists.
func (t *Table) Column(name string) ([]Value, bool) {
	for i, c := range t.Columns {
		if c == name {
			return t.Cells[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// AppendColumn adds a column at the end of the schema. The values slice
// must match the table's row count.
func (t *Table) AppendColumn(name string, values []Value) {
	t.Columns = append(t.Columns, name)
	t.Cells = append(t.Cells, values)
}

// Dataset is the merged output: a union schema over all accepted tables
// and row-major values aligned to it.
type Dataset struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"-"`
}

// Run represents one pipeline execution recorded in the warehouse.
type Run struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	StartedAt     time.Time       `db:"started_at" json:"started_at"`
	FinishedAt    time.Time       `db:"finished_at" json:"finished_at"`
	Status        RunStatus       `db:"status" json:"status"`
	DocumentCount int             `db:"document_count" json:"document_count"`
	RowCount      int             `db:"row_count" json:"row_count"`
	Report        json.RawMessage `db:"report" json:"report"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// FacilitySubmission is one dataset row flattened for the warehouse. The
// well-known columns are lifted into their own fields; the complete row is
// kept as JSON so schema drift across audit years never loses data.
type FacilitySubmission struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	RunID          uuid.UUID       `db:"run_id" json:"run_id"`
	Facility       string          `db:"facility" json:"facility"`
	AuditYear      string          `db:"audit_year" json:"audit_year"`
	FileType       string          `db:"file_type" json:"file_type"`
	DischargeMonth string          `db:"discharge_month" json:"discharge_month"`
	Fields         json.RawMessage `db:"fields" json:"fields"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
