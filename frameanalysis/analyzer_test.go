package frameanalysis

import (
	"image"
	"image/color"
	"testing"

	"github.com/sheetanim/sheetanim/spritegrid"
)

func newSheet(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func fill(img *image.NRGBA, r image.Rectangle, a uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: a})
		}
	}
}

func cellAt(row, col int, r image.Rectangle) spritegrid.Cell {
	return spritegrid.Cell{Position: spritegrid.Position{Row: row, Col: col}, Rect: r}
}

func TestAnalyze_FullyOpaqueCell(t *testing.T) {
	img := newSheet(100, 100)
	fill(img, image.Rect(0, 0, 10, 10), 255)

	a := NewAnalyzer(DefaultAlphaThreshold)
	r, ok := a.Analyze("sheet", img, cellAt(0, 0, image.Rect(0, 0, 10, 10)))
	if !ok {
		t.Fatalf("expected a result")
	}
	if !r.HasContent {
		t.Errorf("expected content")
	}
	if r.Trimmed != image.Rect(0, 0, 10, 10) {
		t.Errorf("expected trimmed (0,0,10,10), got %v", r.Trimmed)
	}
	if r.Pivot != image.Pt(5, 9) {
		t.Errorf("expected pivot (5,9), got %v", r.Pivot)
	}
	if r.Offset != image.Pt(0, 0) {
		t.Errorf("expected offset (0,0), got %v", r.Offset)
	}
}

func TestAnalyze_TrimsToContent(t *testing.T) {
	img := newSheet(64, 32)
	// cell (0,1) spans x 32..64; content at local (5..12, 3..20)
	fill(img, image.Rect(37, 3, 45, 21), 200)
	// below threshold, ignored
	fill(img, image.Rect(32, 0, 34, 2), 16)

	a := NewAnalyzer(16)
	r, ok := a.Analyze("sheet", img, cellAt(0, 1, image.Rect(32, 0, 64, 32)))
	if !ok || !r.HasContent {
		t.Fatalf("expected content result, got %+v ok=%v", r, ok)
	}
	if r.Trimmed != image.Rect(37, 3, 45, 21) {
		t.Errorf("expected trimmed (37,3)-(45,21), got %v", r.Trimmed)
	}
	if r.Offset != image.Pt(5, 3) {
		t.Errorf("expected offset (5,3), got %v", r.Offset)
	}
	if r.Pivot != image.Pt(4, 17) {
		t.Errorf("expected pivot (4,17), got %v", r.Pivot)
	}
	if r.SheetPivot() != image.Pt(41, 20) {
		t.Errorf("expected sheet pivot (41,20), got %v", r.SheetPivot())
	}
	if !r.Trimmed.In(r.Original) {
		t.Errorf("trimmed %v not inside original %v", r.Trimmed, r.Original)
	}
}

func TestAnalyze_EmptyCell(t *testing.T) {
	img := newSheet(20, 20)
	fill(img, image.Rect(0, 0, 20, 20), 16)

	a := NewAnalyzer(16)
	rect := image.Rect(10, 10, 20, 19)
	r, ok := a.Analyze("sheet", img, cellAt(1, 1, rect))
	if !ok {
		t.Fatalf("expected a result")
	}
	if r.HasContent {
		t.Errorf("expected no content")
	}
	if r.Trimmed != rect {
		t.Errorf("expected trimmed == original, got %v", r.Trimmed)
	}
	if r.Pivot != image.Pt(5, 8) {
		t.Errorf("expected pivot (5,8), got %v", r.Pivot)
	}
	if r.Offset != (image.Point{}) {
		t.Errorf("expected zero offset, got %v", r.Offset)
	}
}

func TestAnalyze_CachedAndIdempotent(t *testing.T) {
	img := newSheet(32, 32)
	fill(img, image.Rect(4, 4, 8, 8), 255)
	a := NewAnalyzer(16)
	cell := cellAt(0, 0, image.Rect(0, 0, 16, 16))

	first, _ := a.Analyze("s", img, cell)
	second, _ := a.Analyze("s", img, cell)
	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
	if a.Scans() != 1 {
		t.Errorf("expected second call to be served from cache, got %d scans", a.Scans())
	}

	// other sheet identity is a separate entry
	a.Analyze("other", img, cell)
	if a.Scans() != 2 || a.CacheLen() != 2 {
		t.Errorf("expected 2 scans and 2 entries, got %d and %d", a.Scans(), a.CacheLen())
	}
}

func TestSetAlphaThreshold(t *testing.T) {
	img := newSheet(16, 16)
	fill(img, image.Rect(2, 2, 6, 6), 100)
	a := NewAnalyzer(16)
	cell := cellAt(0, 0, image.Rect(0, 0, 16, 16))

	r, _ := a.Analyze("s", img, cell)
	if !r.HasContent {
		t.Fatalf("expected content at threshold 16")
	}

	a.SetAlphaThreshold(100)
	if a.CacheLen() != 0 {
		t.Errorf("expected cache cleared, got %d entries", a.CacheLen())
	}
	r, _ = a.Analyze("s", img, cell)
	if r.HasContent {
		t.Errorf("expected no content when alpha == threshold")
	}

	a.SetAlphaThreshold(300)
	if a.Threshold() != 255 {
		t.Errorf("expected clamp to 255, got %d", a.Threshold())
	}
	a.SetAlphaThreshold(-4)
	if a.Threshold() != 0 {
		t.Errorf("expected clamp to 0, got %d", a.Threshold())
	}
}

func TestAnalyze_OutOfBounds(t *testing.T) {
	img := newSheet(16, 16)
	a := NewAnalyzer(16)
	if _, ok := a.Analyze("s", img, cellAt(0, 1, image.Rect(8, 0, 24, 16))); ok {
		t.Errorf("expected no result for rect outside sheet")
	}
	if _, ok := a.Analyze("s", img, cellAt(0, 0, image.Rectangle{})); ok {
		t.Errorf("expected no result for empty rect")
	}
	if a.CacheLen() != 0 {
		t.Errorf("expected failures to stay uncached")
	}
}

func TestAnalyze_GenericImage(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 8, 8))
	img.Set(3, 5, color.RGBA64{A: 0xffff})
	a := NewAnalyzer(16)
	r, ok := a.Analyze("s", img, cellAt(0, 0, image.Rect(0, 0, 8, 8)))
	if !ok || !r.HasContent {
		t.Fatalf("expected content, got %+v", r)
	}
	if r.Trimmed != image.Rect(3, 5, 4, 6) {
		t.Errorf("expected single pixel trim, got %v", r.Trimmed)
	}
	if r.Pivot != image.Pt(0, 0) {
		t.Errorf("expected pivot (0,0), got %v", r.Pivot)
	}
}

func TestBatchAnalyze(t *testing.T) {
	img := newSheet(32, 16)
	fill(img, image.Rect(2, 2, 10, 14), 255)
	g, err := spritegrid.New(32, 16, spritegrid.Size{W: 16, H: 16}, 0, 0)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	cells := append(g.Cells(), cellAt(0, 5, image.Rect(80, 0, 96, 16)))

	a := NewAnalyzer(16)
	b := a.BatchAnalyze("s", img, cells)
	if b.Len() != 2 {
		t.Fatalf("expected 2 results, got %d", b.Len())
	}
	if r, ok := b.Get(spritegrid.Position{Row: 0, Col: 0}); !ok || !r.HasContent {
		t.Errorf("expected content at (0,0)")
	}
	if r, ok := b.Get(spritegrid.Position{Row: 0, Col: 1}); !ok || r.HasContent {
		t.Errorf("expected empty result at (0,1)")
	}
}
