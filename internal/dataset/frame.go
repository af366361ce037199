// Package dataset provides the column-ordered tabular artifact passed between
// the generation, diagnostics, bias, and export stages. A Frame holds numeric
// columns (float64, NaN marks a missing cell) and categorical columns (string)
// in a stable declaration order.
package dataset

import (
	"fmt"
	"math"
)

// Kind distinguishes numeric from categorical columns.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing cell.
	Numeric Kind = iota
	// Categorical columns hold string labels.
	Categorical
)

// Column is a single named column of a Frame.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64
	Labels []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Frame is an ordered collection of equally sized columns.
type Frame struct {
	cols   []*Column
	byName map[string]int
	nrows  int
}

// New creates an empty frame with a fixed row count.
func New(nrows int) *Frame {
	return &Frame{byName: make(map[string]int), nrows: nrows}
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.nrows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns column names in declaration order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in declaration order. The returned slice shares
// backing storage with the frame.
func (f *Frame) Columns() []*Column { return f.cols }

// AddNumeric appends a numeric column. The values slice is owned by the frame
// after the call.
func (f *Frame) AddNumeric(name string, values []float64) error {
	if err := f.checkAdd(name, len(values)); err != nil {
		return err
	}
	f.byName[name] = len(f.cols)
	f.cols = append(f.cols, &Column{Name: name, Kind: Numeric, Floats: values})
	return nil
}

// AddCategorical appends a categorical column.
func (f *Frame) AddCategorical(name string, values []string) error {
	if err := f.checkAdd(name, len(values)); err != nil {
		return err
	}
	f.byName[name] = len(f.cols)
	f.cols = append(f.cols, &Column{Name: name, Kind: Categorical, Labels: values})
	return nil
}

func (f *Frame) checkAdd(name string, n int) error {
	if name == "" {
		return fmt.Errorf("dataset: column name cannot be empty")
	}
	if _, exists := f.byName[name]; exists {
		return fmt.Errorf("dataset: duplicate column %q", name)
	}
	if n != f.nrows {
		return fmt.Errorf("dataset: column %q has %d rows, frame has %d", name, n, f.nrows)
	}
	return nil
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[idx], true
}

// Numeric returns the values of a numeric column.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	col, ok := f.Column(name)
	if !ok || col.Kind != Numeric {
		return nil, false
	}
	return col.Floats, true
}

// Select returns a new frame containing the named columns in the given order.
// Column data is shared, not copied.
func (f *Frame) Select(names []string) (*Frame, error) {
	out := New(f.nrows)
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("dataset: unknown column %q", name)
		}
		out.byName[name] = len(out.cols)
		out.cols = append(out.cols, col)
	}
	return out, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := New(f.nrows)
	for _, c := range f.cols {
		cc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Numeric {
			cc.Floats = append([]float64(nil), c.Floats...)
		} else {
			cc.Labels = append([]string(nil), c.Labels...)
		}
		out.byName[cc.Name] = len(out.cols)
		out.cols = append(out.cols, cc)
	}
	return out
}

// Bind returns a new frame with the columns of f followed by the columns of
// other. Both frames must have the same row count.
func (f *Frame) Bind(other *Frame) (*Frame, error) {
	if other.nrows != f.nrows {
		return nil, fmt.Errorf("dataset: cannot bind frames with %d and %d rows", f.nrows, other.nrows)
	}
	out := New(f.nrows)
	for _, c := range append(append([]*Column{}, f.cols...), other.cols...) {
		if _, exists := out.byName[c.Name]; exists {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		out.byName[c.Name] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out, nil
}

// CellString renders a single cell for tabular output. Missing numeric cells
// render as the empty string; integral floats render without a decimal point.
func (f *Frame) CellString(row int, col *Column) string {
	if col.Kind == Categorical {
		return col.Labels[row]
	}
	v := col.Floats[row]
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Equal reports whether two frames have identical shape, names, kinds, and
// cell values. NaN cells compare equal to NaN.
func (f *Frame) Equal(other *Frame) bool {
	if f.nrows != other.nrows || len(f.cols) != len(other.cols) {
		return false
	}
	for i, c := range f.cols {
		o := other.cols[i]
		if c.Name != o.Name || c.Kind != o.Kind {
			return false
		}
		if c.Kind == Numeric {
			for j := range c.Floats {
				a, b := c.Floats[j], o.Floats[j]
				if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
					return false
				}
			}
		} else {
			for j := range c.Labels {
				if c.Labels[j] != o.Labels[j] {
					return false
				}
			}
		}
	}
	return true
}
