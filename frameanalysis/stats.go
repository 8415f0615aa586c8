package frameanalysis

import "image"

// Stats aggregates a batch of analysis results.
type Stats struct {
	TotalFrames       int
	FramesWithContent int
	EmptyFrames       int

	OriginalPixels int
	TrimmedPixels  int
	SavedPixels    int
	SavedPercent   float64

	// MostCommonSize is the most frequent trimmed size among frames with
	// content; ties go to the size encountered first. Valid only when
	// HasCommonSize is true.
	MostCommonSize image.Point
	HasCommonSize  bool

	// SizeDistribution counts trimmed sizes; Sizes lists them in
	// first-encountered order.
	SizeDistribution map[image.Point]int
	Sizes            []image.Point
}

// AggregateStatistics summarizes b in b.Positions order. Empty frames count
// their whole area as saved, because they export nothing trimmed.
func AggregateStatistics(b Batch) Stats {
	s := Stats{SizeDistribution: make(map[image.Point]int)}
	for _, pos := range b.Positions {
		r, ok := b.Results[pos]
		if !ok {
			continue
		}
		s.TotalFrames++
		s.OriginalPixels += area(r.Original)
		if !r.HasContent {
			continue
		}
		s.FramesWithContent++
		s.TrimmedPixels += area(r.Trimmed)

		size := r.Trimmed.Size()
		if _, seen := s.SizeDistribution[size]; !seen {
			s.Sizes = append(s.Sizes, size)
		}
		s.SizeDistribution[size]++
	}
	s.EmptyFrames = s.TotalFrames - s.FramesWithContent

	if s.OriginalPixels > 0 {
		s.SavedPixels = s.OriginalPixels - s.TrimmedPixels
		s.SavedPercent = float64(s.SavedPixels) / float64(s.OriginalPixels) * 100
	}

	best := 0
	for _, size := range s.Sizes {
		if n := s.SizeDistribution[size]; n > best {
			best = n
			s.MostCommonSize = size
			s.HasCommonSize = true
		}
	}
	return s
}

func area(r image.Rectangle) int { return r.Dx() * r.Dy() }
