package frameanalysis

import (
	"image"
	"math"
	"testing"

	"github.com/sheetanim/sheetanim/spritegrid"
)

func batchOf(results ...Result) Batch {
	b := Batch{Results: make(map[spritegrid.Position]Result)}
	for i, r := range results {
		pos := spritegrid.Position{Row: 0, Col: i}
		b.Positions = append(b.Positions, pos)
		b.Results[pos] = r
	}
	return b
}

func trimmed(w, h int) Result {
	return Result{
		Original:   image.Rect(0, 0, 10, 10),
		Trimmed:    image.Rect(0, 0, w, h),
		HasContent: true,
	}
}

func TestAggregateStatistics(t *testing.T) {
	empty := Result{Original: image.Rect(0, 0, 10, 10), Trimmed: image.Rect(0, 0, 10, 10)}
	s := AggregateStatistics(batchOf(trimmed(4, 5), trimmed(2, 2), empty, trimmed(4, 5)))

	if s.TotalFrames != 4 || s.FramesWithContent != 3 || s.EmptyFrames != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.OriginalPixels != 400 {
		t.Errorf("expected 400 original pixels, got %d", s.OriginalPixels)
	}
	if s.TrimmedPixels != 44 {
		t.Errorf("expected 44 trimmed pixels, got %d", s.TrimmedPixels)
	}
	if s.SavedPixels != 356 {
		t.Errorf("expected 356 saved pixels, got %d", s.SavedPixels)
	}
	if math.Abs(s.SavedPercent-89) > 1e-9 {
		t.Errorf("expected 89%% saved, got %f", s.SavedPercent)
	}
	if !s.HasCommonSize || s.MostCommonSize != image.Pt(4, 5) {
		t.Errorf("expected most common size 4x5, got %v", s.MostCommonSize)
	}
	if s.SizeDistribution[image.Pt(2, 2)] != 1 {
		t.Errorf("expected one 2x2 frame, got %d", s.SizeDistribution[image.Pt(2, 2)])
	}
}

func TestAggregateStatistics_TieGoesToFirst(t *testing.T) {
	s := AggregateStatistics(batchOf(trimmed(3, 3), trimmed(1, 1), trimmed(1, 1), trimmed(3, 3)))
	if s.MostCommonSize != image.Pt(3, 3) {
		t.Errorf("expected first encountered size 3x3 on tie, got %v", s.MostCommonSize)
	}
	if len(s.Sizes) != 2 || s.Sizes[0] != image.Pt(3, 3) {
		t.Errorf("expected sizes in encounter order, got %v", s.Sizes)
	}
}

func TestAggregateStatistics_Empty(t *testing.T) {
	s := AggregateStatistics(Batch{})
	if s.TotalFrames != 0 || s.HasCommonSize || s.SavedPercent != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}
