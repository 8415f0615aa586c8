package frameanalysis

import (
	"image"
	"testing"

	"github.com/sheetanim/sheetanim/spritegrid"
)

func TestSuggestAlphaThreshold_DropsFaintHalo(t *testing.T) {
	img := newSheet(20, 20)
	fill(img, image.Rect(5, 5, 15, 15), 255)
	fill(img, image.Rect(0, 0, 3, 3), 40)

	got := SuggestAlphaThreshold(img, img.Bounds())
	if got < 40 || got > 254 {
		t.Fatalf("expected threshold in [40,254], got %d", got)
	}

	a := NewAnalyzer(got)
	cell := spritegrid.Cell{Rect: img.Bounds()}
	r, ok := a.Analyze("s", img, cell)
	if !ok || r.Trimmed != image.Rect(5, 5, 15, 15) {
		t.Errorf("expected trim to opaque block with suggested threshold, got %v", r.Trimmed)
	}
}

func TestSuggestAlphaThreshold_Degenerate(t *testing.T) {
	img := newSheet(8, 8)
	if got := SuggestAlphaThreshold(img, image.Rect(20, 20, 30, 30)); got != DefaultAlphaThreshold {
		t.Errorf("expected default for empty region, got %d", got)
	}
	fill(img, img.Bounds(), 255)
	if got := SuggestAlphaThreshold(img, img.Bounds()); got > 254 {
		t.Errorf("expected threshold capped at 254, got %d", got)
	}
}
