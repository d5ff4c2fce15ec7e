package extract

import (
	"strconv"
	"strings"

	"sparcsetl/internal/domain"
)

// Transform applies the typed-field conversions and appends the
// provenance columns. Cells that fail conversion are downgraded to
// missing and recorded in the findings; a bad cell never fails a table.
func Transform(t *domain.Table, rules Rules, f *Findings) {
	for i, label := range t.Columns {
		if !rules.isPercentColumn(label) {
			continue
		}
		for r, v := range t.Cells[i] {
			if v.IsMissing() {
				continue
			}
			num, err := parsePercent(v.Text)
			if err != nil {
				f.CoercionFailures = append(f.CoercionFailures, domain.CoercionFailure{
					DocumentID: t.Doc.ID,
					TableIndex: t.Index,
					Column:     label,
					Row:        r,
					Raw:        v.Text,
				})
				t.Cells[i][r] = domain.Missing()
				continue
			}
			t.Cells[i][r] = domain.NumberValue(num)
		}
	}

	n := t.NumRows()
	for _, label := range rules.PercentColumns {
		if t.HasColumn(label) {
			continue
		}
		t.AppendColumn(label, missingColumn(n))
		f.notef("doc %s table %d: percent column %s not present, filled with missing", t.Doc.ID, t.Index, label)
	}

	setColumn(t, rules.FacilityColumn, domain.TextValue(t.Doc.Facility))
	setColumn(t, rules.PeriodColumn, domain.TextValue(t.Doc.Period))
	for _, a := range t.Doc.Annotations {
		setColumn(t, a.Column, domain.TextValue(a.Value))
	}
}

// parsePercent converts percent text to a fraction: "75.5%" becomes
// 0.755. Values above 100% are legal and come out above 1.0.
func parsePercent(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, "%")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// setColumn sets every row of the named column to the same value, adding
// the column when absent.
func setColumn(t *domain.Table, name string, v domain.Value) {
	col := make([]domain.Value, t.NumRows())
	for i := range col {
		col[i] = v
	}
	for i, c := range t.Columns {
		if c == name {
			t.Cells[i] = col
			return
		}
	}
	t.AppendColumn(name, col)
}

func missingColumn(n int) []domain.Value {
	col := make([]domain.Value, n)
	for i := range col {
		col[i] = domain.Missing()
	}
	return col
}
