package cleaning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Column is a named, ordered sequence of cells
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Dataset is a columnar table: unique column names mapped to equally long
// value sequences. Column order is preserved from the input.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// Shape is a (row_count, column_count) pair
type Shape struct {
	Rows    int
	Columns int
}

// MarshalJSON writes the shape as a [rows, columns] pair
func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Rows, s.Columns})
}

// UnmarshalJSON reads a [rows, columns] pair
func (s *Shape) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("shape must be a [rows, columns] pair: %w", err)
	}
	s.Rows, s.Columns = pair[0], pair[1]
	return nil
}

// NewDataset creates an empty dataset
func NewDataset() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// NewDatasetFromColumns builds a dataset from ordered columns
func NewDatasetFromColumns(columns []Column) (*Dataset, error) {
	ds := NewDataset()
	for _, col := range columns {
		if err := ds.AddColumn(col.Name, col.Values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// NewDatasetFromMap builds a dataset from raw cells keyed by column name.
// Go maps carry no order, so columns are sorted by name.
func NewDatasetFromMap(raw map[string][]interface{}) *Dataset {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	ds := NewDataset()
	for _, name := range names {
		values := make([]Value, len(raw[name]))
		for i, cell := range raw[name] {
			values[i] = FromRaw(cell)
		}
		// names come from map keys so they are unique
		_ = ds.AddColumn(name, values)
	}
	return ds
}

// AddColumn appends a column; the dataset takes ownership of values
func (d *Dataset) AddColumn(name string, values []Value) error {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if _, exists := d.index[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if values == nil {
		values = []Value{}
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, Column{Name: name, Values: values})
	return nil
}

// Columns returns the columns in order. The slice is a copy; the value
// slices are shared, callers must not mutate them.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column returns the values of the named column
func (d *Dataset) Column(name string) ([]Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i].Values, true
}

// Names returns the column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// NumColumns returns the column count
func (d *Dataset) NumColumns() int {
	return len(d.columns)
}

// NumRows returns the row count, taken from the first column
func (d *Dataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// Shape returns the (rows, columns) pair
func (d *Dataset) Shape() Shape {
	return Shape{Rows: d.NumRows(), Columns: d.NumColumns()}
}

// Validate checks the input-shape contract: at least one column and all
// columns of equal length.
func (d *Dataset) Validate() error {
	if d == nil || len(d.columns) == 0 {
		return ErrNoColumns
	}
	want := len(d.columns[0].Values)
	for _, col := range d.columns[1:] {
		if len(col.Values) != want {
			return NewRaggedColumnsError(col.Name, len(col.Values), want)
		}
	}
	return nil
}

// Row returns the cells of row i across all columns
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, col := range d.columns {
		row[j] = col.Values[i]
	}
	return row
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := NewDataset()
	for _, col := range d.columns {
		values := make([]Value, len(col.Values))
		copy(values, col.Values)
		_ = out.AddColumn(col.Name, values)
	}
	return out
}

// WithColumnValues returns a copy of the dataset where the named column has
// been replaced. Other columns share their backing slices.
func (d *Dataset) WithColumnValues(name string, values []Value) *Dataset {
	out := &Dataset{
		columns: make([]Column, len(d.columns)),
		index:   make(map[string]int, len(d.index)),
	}
	copy(out.columns, d.columns)
	for k, v := range d.index {
		out.index[k] = v
	}
	if i, ok := d.index[name]; ok {
		out.columns[i] = Column{Name: name, Values: values}
	}
	return out
}

// FilterRows keeps the rows whose mask entry is true, applied to every column
// at once. The mask must have one entry per row.
func (d *Dataset) FilterRows(keep []bool) (*Dataset, error) {
	if len(keep) != d.NumRows() {
		return nil, fmt.Errorf("row mask has %d entries, dataset has %d rows", len(keep), d.NumRows())
	}
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}

	out := NewDataset()
	for _, col := range d.columns {
		values := make([]Value, 0, kept)
		for i, v := range col.Values {
			if keep[i] {
				values = append(values, v)
			}
		}
		_ = out.AddColumn(col.Name, values)
	}
	return out, nil
}

// MarshalJSON writes {"column": [cells...]} preserving column order
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range d.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(col.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		values, err := json.Marshal(col.Values)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal column %q: %w", col.Name, err)
		}
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
