package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred storage type of a column, using the usual dataframe dtype
// names so reports read the same as downstream notebooks.
type Kind string

const (
	KindInt    Kind = "int64"
	KindFloat  Kind = "float64"
	KindObject Kind = "object"
)

// Table is an immutable, column-oriented view of a loaded dataset.
type Table struct {
	Name    string
	Columns []*Column
	rows    int
	index   map[string]int
}

// Column holds the raw cell values of one column plus its inferred kind.
type Column struct {
	Name  string
	Kind  Kind
	raw   []string
	null  []bool
	nums  []float64
	nulls int
}

// FromRecords builds a table from in-memory rows. Short rows are padded with
// empty (null) cells; longer rows are rejected.
func FromRecords(name string, header []string, records [][]string) (*Table, error) {
	rows := make([][]string, len(records))
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", i+1, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows[i] = row
	}
	return newTable(name, header, rows), nil
}

// newTable builds a table from a header and row-major records. Records must
// already be padded to the header width.
func newTable(name string, header []string, records [][]string) *Table {
	t := &Table{Name: name, rows: len(records), index: make(map[string]int, len(header))}
	for j, h := range header {
		c := &Column{
			Name: h,
			raw:  make([]string, len(records)),
			null: make([]bool, len(records)),
		}
		for i, rec := range records {
			v := rec[j]
			c.raw[i] = v
			if isNullToken(v) {
				c.null[i] = true
				c.nulls++
			}
		}
		c.infer()
		t.Columns = append(t.Columns, c)
		if _, dup := t.index[h]; !dup {
			t.index[h] = j
		}
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	if t == nil || name == "" {
		return nil, false
	}
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Columns[j], true
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.Column(name)
	return ok
}

func (c *Column) infer() {
	nonNull := len(c.raw) - c.nulls
	if nonNull == 0 {
		// an all-empty column is a float column of NaNs
		c.Kind = KindFloat
		c.nums = make([]float64, len(c.raw))
		for i := range c.nums {
			c.nums[i] = math.NaN()
		}
		return
	}
	nums := make([]float64, len(c.raw))
	integral := true
	for i, v := range c.raw {
		if c.null[i] {
			nums[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			c.Kind = KindObject
			return
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			integral = false
		}
		nums[i] = f
	}
	c.nums = nums
	if integral && c.nulls == 0 {
		c.Kind = KindInt
	} else {
		c.Kind = KindFloat
	}
}

// IsNumeric reports whether every non-null value parsed as a number.
func (c *Column) IsNumeric() bool { return c.Kind == KindInt || c.Kind == KindFloat }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.raw) }

// NullCount returns how many cells hold a null token.
func (c *Column) NullCount() int { return c.nulls }

// IsNull reports whether row i is null.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// Raw returns the unparsed cell text of row i.
func (c *Column) Raw(i int) string { return c.raw[i] }

// Text returns the cell text of row i, or "" when the cell is null.
func (c *Column) Text(i int) string {
	if c.null[i] {
		return ""
	}
	return c.raw[i]
}

// Float returns the numeric value of row i for numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if !c.IsNumeric() || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Key returns the canonical category label of row i. Numeric cells are
// normalized so that "5", "5.0" and "05" share one label.
func (c *Column) Key(i int) (string, bool) {
	if c.null[i] {
		return "", false
	}
	if c.IsNumeric() {
		return FormatNumber(c.nums[i]), true
	}
	return c.raw[i], true
}

// Distinct returns the distinct non-null keys in first-appearance order.
func (c *Column) Distinct() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range c.raw {
		k, ok := c.Key(i)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Range returns min and max over non-null numeric values.
func (c *Column) Range() (lo, hi float64, ok bool) {
	if !c.IsNumeric() {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, v := range c.nums {
		if c.null[i] {
			continue
		}
		ok = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// FormatNumber renders a float the way a category label should read:
// integral values without a fractional part.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// cell values read as missing
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isNullToken(v string) bool {
	_, ok := nullTokens[strings.TrimSpace(v)]
	return ok
}
