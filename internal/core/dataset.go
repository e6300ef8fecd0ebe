package core

// Row is one record of a Dataset, aligned with Dataset.Columns.
type Row []Value

// Dataset is a loaded tabular source: named columns and rows of cells.
// Column names are canonical keys (see HeaderKey).
type Dataset struct {
	Source  string
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewDataset builds a Dataset from a header row and raw records.
// Headers are resolved to canonical keys; when two headers resolve to the
// same key the first one wins. Short records are padded with missing cells
// and long ones truncated so every row matches the header width.
func NewDataset(source string, header []string, records [][]string) *Dataset {
	ds := &Dataset{
		Source:  source,
		Columns: make([]string, len(header)),
		Rows:    make([]Row, 0, len(records)),
		index:   make(map[string]int, len(header)),
	}

	for i, h := range header {
		key := HeaderKey(h)
		ds.Columns[i] = key
		if _, dup := ds.index[key]; !dup && key != "" {
			ds.index[key] = i
		}
	}

	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		row := make(Row, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = RawValue(rec[i])
			} else {
				row[i] = MissingValue()
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if CleanCell(cell) != "" {
			return false
		}
	}
	return true
}

// Has reports whether the dataset carries the given column.
func (d *Dataset) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Present returns the subset of keys the dataset carries, in the given order.
func (d *Dataset) Present(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if d.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Get returns the cell for key in row, or a missing value when the
// column is absent.
func (d *Dataset) Get(row Row, key string) Value {
	i, ok := d.index[key]
	if !ok || i >= len(row) {
		return MissingValue()
	}
	return row[i]
}

// Identity returns the row's property title, or "" when missing.
func (d *Dataset) Identity(row Row) string {
	return d.Get(row, ColPropertyTitle).String()
}

// Shape returns the row and column counts.
func (d *Dataset) Shape() (rows, cols int) {
	return len(d.Rows), len(d.Columns)
}

// Clone returns a deep copy of the dataset's rows and columns.
func (d *Dataset) Clone() *Dataset {
	c := &Dataset{
		Source:  d.Source,
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Row, len(d.Rows)),
		index:   make(map[string]int, len(d.index)),
	}
	for k, v := range d.index {
		c.index[k] = v
	}
	for i, r := range d.Rows {
		c.Rows[i] = append(Row(nil), r...)
	}
	return c
}
