package spritegrid

import (
	"errors"
	"image"
	"strings"
	"testing"
)

func mustGrid(t *testing.T, w, h int, tile Size, margin, spacing int) *Grid {
	t.Helper()
	g, err := New(w, h, tile, margin, spacing)
	if err != nil {
		t.Fatalf("New(%d, %d, %v, %d, %d) failed: %v", w, h, tile, margin, spacing, err)
	}
	return g
}

func TestNew_ComputesRowsAndCols(t *testing.T) {
	g := mustGrid(t, 100, 50, Size{W: 10, H: 10}, 0, 0)
	if g.Cols() != 10 || g.Rows() != 5 {
		t.Fatalf("expected 5x10 grid, got %dx%d", g.Rows(), g.Cols())
	}
	if g.TotalCells() != 50 {
		t.Errorf("expected 50 cells, got %d", g.TotalCells())
	}

	// (100 - 2 + 1) / (10 + 1) = 9
	g = mustGrid(t, 100, 100, Size{W: 10, H: 10}, 2, 1)
	if g.Cols() != 9 || g.Rows() != 9 {
		t.Errorf("expected 9x9 grid with margin/spacing, got %dx%d", g.Rows(), g.Cols())
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	cases := []struct{ w, h int }{
		{0, 10}, {10, 0}, {-1, 10}, {MaxDimension + 1, 10}, {10, MaxDimension + 1},
	}
	for _, c := range cases {
		_, err := New(c.w, c.h, Size{W: 8, H: 8}, 0, 0)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%dx%d: expected ErrInvalidDimensions, got %v", c.w, c.h, err)
		}
	}
	if _, err := New(MaxDimension, MaxDimension, Size{W: 8, H: 8}, 0, 0); err != nil {
		t.Errorf("expected max dimension to be accepted, got %v", err)
	}
}

func TestNew_InvalidGrid(t *testing.T) {
	if _, err := New(10, 10, Size{W: 16, H: 16}, 0, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for oversized tile, got %v", err)
	}
	if _, err := New(10, 10, Size{W: 0, H: 4}, 0, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for zero tile width, got %v", err)
	}
	if _, err := New(10, 10, Size{W: 4, H: 4}, -1, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for negative margin, got %v", err)
	}
}

func TestCellRect(t *testing.T) {
	g := mustGrid(t, 64, 64, Size{W: 16, H: 8}, 2, 1)
	r, err := g.CellRect(1, 2)
	if err != nil {
		t.Fatalf("CellRect failed: %v", err)
	}
	want := image.Rect(2+2*17, 2+1*9, 2+2*17+16, 2+1*9+8)
	if r != want {
		t.Errorf("expected %v, got %v", want, r)
	}

	for _, pos := range []Position{{-1, 0}, {0, -1}, {g.Rows(), 0}, {0, g.Cols()}} {
		if _, err := g.CellRect(pos.Row, pos.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%v: expected ErrOutOfBounds, got %v", pos, err)
		}
	}
}

func TestGridNeverOverflowsImage(t *testing.T) {
	for w := 1; w <= 70; w += 3 {
		for tw := 1; tw <= 12; tw++ {
			for margin := 0; margin <= 4; margin++ {
				for spacing := 0; spacing <= 3; spacing++ {
					cols := fit(w, tw, margin, spacing)
					if cols == 0 {
						continue
					}
					span := margin + cols*tw + (cols-1)*spacing
					if span > w {
						t.Fatalf("w=%d tile=%d margin=%d spacing=%d: cols=%d spans %d px", w, tw, margin, spacing, cols, span)
					}
					if margin == 0 && cols*tw+(cols-1)*spacing+2*margin > w {
						t.Fatalf("w=%d tile=%d spacing=%d: grid overflows", w, tw, spacing)
					}
				}
			}
		}
	}
}

func TestCells_AllInsideImage(t *testing.T) {
	g := mustGrid(t, 50, 30, Size{W: 7, H: 5}, 1, 2)
	cells := g.Cells()
	if len(cells) != g.TotalCells() {
		t.Fatalf("expected %d cells, got %d", g.TotalCells(), len(cells))
	}
	bounds := image.Rect(0, 0, 50, 30)
	for _, c := range cells {
		if !c.Rect.In(bounds) {
			t.Errorf("cell %v rect %v outside image", c.Position, c.Rect)
		}
	}
	if cells[0].Position != (Position{0, 0}) || cells[len(cells)-1].Position != (Position{g.Rows() - 1, g.Cols() - 1}) {
		t.Errorf("expected row-major order, got first %v last %v", cells[0].Position, cells[len(cells)-1].Position)
	}
}

func TestReconfigure(t *testing.T) {
	g := mustGrid(t, 100, 100, Size{W: 10, H: 10}, 2, 1)
	calls := 0
	g.OnReconfigure(func() { calls++ })

	g.Reconfigure(Size{W: 20, H: 20})
	if g.Margin() != 2 || g.Spacing() != 1 {
		t.Errorf("expected margin/spacing retained, got %d/%d", g.Margin(), g.Spacing())
	}
	if g.Cols() != 4 {
		t.Errorf("expected 4 cols, got %d", g.Cols())
	}

	g.Reconfigure(Size{W: 25, H: 25}, WithMargin(0), WithSpacing(0))
	if g.Cols() != 4 || g.Rows() != 4 {
		t.Errorf("expected 4x4, got %dx%d", g.Rows(), g.Cols())
	}

	g.Reconfigure(Size{W: 200, H: 200})
	if g.TotalCells() != 0 {
		t.Errorf("expected empty grid after oversized tile, got %d cells", g.TotalCells())
	}
	if calls != 3 {
		t.Errorf("expected 3 reconfigure hook calls, got %d", calls)
	}
}

func TestPositionAt(t *testing.T) {
	g := mustGrid(t, 100, 100, Size{W: 16, H: 16}, 2, 2)
	cases := []struct {
		x, y int
		want Position
	}{
		{2, 2, Position{0, 0}},
		{20, 2, Position{0, 1}},
		{38, 56, Position{3, 2}},
		{0, 0, Position{-1, -1}},
	}
	for _, c := range cases {
		if got := g.PositionAt(c.x, c.y); got != c.want {
			t.Errorf("PositionAt(%d, %d): expected %v, got %v", c.x, c.y, c.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	g := mustGrid(t, 64, 64, Size{W: 16, H: 16}, 0, 0)
	if w := g.Validate(); len(w) != 0 {
		t.Errorf("expected no warnings for exact fit, got %v", w)
	}

	g = mustGrid(t, 70, 64, Size{W: 16, H: 16}, 0, 0)
	if !hasWarning(g.Validate(), "right edge") {
		t.Errorf("expected right edge warning, got %v", g.Validate())
	}

	g = mustGrid(t, 120, 20, Size{W: 60, H: 10}, 0, 0)
	if !hasWarning(g.Validate(), "aspect ratio") {
		t.Errorf("expected aspect ratio warning, got %v", g.Validate())
	}

	g = mustGrid(t, 400, 400, Size{W: 8, H: 8}, 0, 0)
	if !hasWarning(g.Validate(), "very large tile count") {
		t.Errorf("expected large count warning, got %v", g.Validate())
	}

	g.Reconfigure(Size{W: 500, H: 500})
	if !hasWarning(g.Validate(), "no valid tiles") {
		t.Errorf("expected no tiles warning, got %v", g.Validate())
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
