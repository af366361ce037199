package dataset

import (
	"math"
	"testing"
)

func TestAddColumnChecks(t *testing.T) {
	f := New(3)
	if err := f.AddNumeric("a", []float64{1, 2, 3}); err != nil {
		t.Fatalf("AddNumeric: %v", err)
	}
	if err := f.AddNumeric("a", []float64{4, 5, 6}); err == nil {
		t.Error("expected error for duplicate column name")
	}
	if err := f.AddNumeric("b", []float64{1, 2}); err == nil {
		t.Error("expected error for row-count mismatch")
	}
	if err := f.AddNumeric("", []float64{1, 2, 3}); err == nil {
		t.Error("expected error for empty column name")
	}
	if err := f.AddCategorical("c", []string{"x", "y", "z"}); err != nil {
		t.Fatalf("AddCategorical: %v", err)
	}
	if f.NumCols() != 2 || f.NumRows() != 3 {
		t.Errorf("got %dx%d, want 3x2", f.NumRows(), f.NumCols())
	}
}

func TestSelectKeepsOrderAndSharesStorage(t *testing.T) {
	f := New(2)
	f.AddNumeric("a", []float64{1, 2})
	f.AddNumeric("b", []float64{3, 4})
	f.AddNumeric("c", []float64{5, 6})

	sel, err := f.Select([]string{"c", "a"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	names := sel.Names()
	if len(names) != 2 || names[0] != "c" || names[1] != "a" {
		t.Errorf("Select order = %v, want [c a]", names)
	}

	// Selection is a view, not a copy.
	col, _ := f.Column("c")
	col.Floats[0] = 99
	got, _ := sel.Numeric("c")
	if got[0] != 99 {
		t.Error("selected column does not share storage with parent frame")
	}

	if _, err := f.Select([]string{"missing"}); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestCloneIsDeep(t *testing.T) {
	f := New(2)
	f.AddNumeric("a", []float64{1, 2})
	f.AddCategorical("g", []string{"m", "f"})

	c := f.Clone()
	if !f.Equal(c) {
		t.Fatal("clone should equal original")
	}
	col, _ := c.Column("a")
	col.Floats[0] = 42
	orig, _ := f.Numeric("a")
	if orig[0] != 1 {
		t.Error("mutating clone changed original")
	}
}

func TestBind(t *testing.T) {
	left := New(2)
	left.AddCategorical("g", []string{"m", "f"})
	right := New(2)
	right.AddNumeric("a", []float64{1, 2})

	out, err := left.Bind(right)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	names := out.Names()
	if len(names) != 2 || names[0] != "g" || names[1] != "a" {
		t.Errorf("bound names = %v, want [g a]", names)
	}

	short := New(3)
	short.AddNumeric("x", []float64{1, 2, 3})
	if _, err := left.Bind(short); err == nil {
		t.Error("expected error binding frames of different heights")
	}

	dup := New(2)
	dup.AddNumeric("g", []float64{0, 0})
	if _, err := left.Bind(dup); err == nil {
		t.Error("expected error for duplicate column across frames")
	}
}

func TestCellString(t *testing.T) {
	f := New(3)
	f.AddNumeric("v", []float64{3, 2.5, math.NaN()})
	f.AddCategorical("g", []string{"a", "b", "c"})

	num, _ := f.Column("v")
	if got := f.CellString(0, num); got != "3" {
		t.Errorf("integral cell = %q, want \"3\"", got)
	}
	if got := f.CellString(1, num); got != "2.5" {
		t.Errorf("fractional cell = %q, want \"2.5\"", got)
	}
	if got := f.CellString(2, num); got != "" {
		t.Errorf("missing cell = %q, want empty", got)
	}
	cat, _ := f.Column("g")
	if got := f.CellString(1, cat); got != "b" {
		t.Errorf("categorical cell = %q, want \"b\"", got)
	}
}

func TestEqualTreatsNaNAsEqual(t *testing.T) {
	a := New(2)
	a.AddNumeric("v", []float64{1, math.NaN()})
	b := New(2)
	b.AddNumeric("v", []float64{1, math.NaN()})
	if !a.Equal(b) {
		t.Error("frames with matching NaN cells should be equal")
	}

	c := New(2)
	c.AddNumeric("v", []float64{1, 2})
	if a.Equal(c) {
		t.Error("NaN cell should not equal observed cell")
	}
}
