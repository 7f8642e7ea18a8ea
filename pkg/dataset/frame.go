package dataset

import (
	"fmt"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Frame is a columnar container for tabular data. Every column holds
// exactly Rows() cells.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: Schema{Columns: append([]ColumnSchema(nil), s.Columns...)}, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type)
		if err != nil {
			panic("invalid column kind")
		}
		f.cols[i] = c
		f.index[cs.Name] = i
	}
	return f
}

// FromColumns builds a frame around existing columns. All columns must have
// the same length and distinct names.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Column returns the i-th column.
func (f *Frame) Column(i int) Column { return f.cols[i] }

// Columns returns the columns in schema order. The slice is a copy; the
// columns are shared.
func (f *Frame) Columns() []Column { return append([]Column(nil), f.cols...) }

func (f *Frame) Names() []string { return f.schema.Names() }

// Select resolves a scope: the named column, or every column when name is
// empty.
func (f *Frame) Select(name string) ([]Column, error) {
	if name == "" {
		return f.Columns(), nil
	}
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return []Column{c}, nil
}

// Value returns the typed value of a cell, or nil when it is missing.
func (f *Frame) Value(row int, name string) (any, error) {
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	if row < 0 || row >= f.nrows {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return c.Value(row), nil
}

// NullCount returns the number of missing cells across all columns.
func (f *Frame) NullCount() int {
	n := 0
	for _, c := range f.cols {
		n += NullCount(c)
	}
	return n
}

// AddColumn appends a column. The first column of an empty frame fixes the
// row count.
func (f *Frame) AddColumn(c Column) error {
	if _, dup := f.index[c.Name()]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name())
	}
	if len(f.cols) > 0 && c.Len() != f.nrows {
		return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrLengthMismatch, c.Name(), c.Len(), f.nrows)
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	f.index[c.Name()] = len(f.cols)
	f.cols = append(f.cols, c)
	f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true})
	f.nrows = c.Len()
	return nil
}

// ReplaceColumn swaps in c for the column with the same name. The kind may
// change; the length may not.
func (f *Frame) ReplaceColumn(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, c.Name())
	}
	if c.Len() != f.nrows {
		return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrLengthMismatch, c.Name(), c.Len(), f.nrows)
	}
	f.cols[i] = c
	f.schema.Columns[i].Type = c.Kind()
	return nil
}

// Take returns a new frame holding the given rows in the given order.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)}, cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.cols)), nrows: len(rows)}
	for i, c := range f.cols {
		out.cols[i] = c.Take(rows)
		out.index[c.Name()] = i
	}
	return out
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)}, cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.cols)), nrows: f.nrows}
	for i, c := range f.cols {
		out.cols[i] = c.Clone()
		out.index[c.Name()] = i
	}
	return out
}

// Head returns a copy of the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > f.nrows {
		n = f.nrows
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.Take(rows)
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist). A nil value
// marks the cell missing.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: column %s expects bool, got %T", ErrKindMismatch, name, v)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("%w: column %s expects int64, got %T", ErrKindMismatch, name, v)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("%w: column %s expects float64, got %T", ErrKindMismatch, name, v)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: column %s expects string, got %T", ErrKindMismatch, name, v)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("%w: column %s expects time.Time, got %T", ErrKindMismatch, name, v)
		}
		col.Set(row, t)
	default:
		return ErrInvalidKind
	}
	return nil
}
