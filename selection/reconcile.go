package selection

import (
	"image"
	"maps"
	"slices"

	"github.com/sheetanim/sheetanim/animfile"
	"github.com/sheetanim/sheetanim/aseprite"
	"github.com/sheetanim/sheetanim/spritegrid"
)

// ---------- 像素到网格 / Pixel to grid ----------

// FromTag maps the frames of an Aseprite tag onto grid cells using each
// frame's atlas origin. Frames that land outside g are left out; dropped
// reports how many.
func FromTag(doc *aseprite.Document, anim aseprite.Animation, g *spritegrid.Grid) (sel *Selection, dropped int) {
	sel = New()
	for _, idx := range anim.Indices {
		if idx < 0 || idx >= len(doc.Frames) {
			dropped++
			continue
		}
		if !addPixel(sel, g, doc.Frames[idx].Atlas.Min) {
			dropped++
		}
	}
	if dropped > 0 {
		selLog().Debug().
			Str("tag", anim.Name).
			Int("dropped", dropped).
			Str("grid", g.String()).
			Msg("aseprite frames outside grid were dropped")
	}
	return sel, dropped
}

// FromFrames maps a legacy frame list onto grid cells. Stored row/col wins;
// frames without one are located by their pixel origin. Frames outside g are
// left out.
func FromFrames(frames []animfile.Frame, g *spritegrid.Grid) (sel *Selection, dropped int) {
	sel = New()
	for _, f := range frames {
		if pos, ok := f.GridPosition(); ok {
			if g.Contains(pos.Row, pos.Col) {
				sel.Add(pos)
			} else {
				dropped++
			}
			continue
		}
		if !addPixel(sel, g, image.Pt(f.X, f.Y)) {
			dropped++
		}
	}
	return sel, dropped
}

func addPixel(sel *Selection, g *spritegrid.Grid, p image.Point) bool {
	pos := g.PositionAt(p.X, p.Y)
	if !g.Contains(pos.Row, pos.Col) {
		return false
	}
	sel.Add(pos)
	return true
}

// ---------- 网格推断 / Grid inference ----------

// InferGrid guesses grid parameters from packed Aseprite frames. The tile
// is the most common frame size (first seen wins a tie), the margin is the
// smallest x origin and the spacing is the smallest gap between distinct x
// origins less the tile width, never negative. ok is false without frames.
func InferGrid(frames []aseprite.Frame) (params spritegrid.Params, ok bool) {
	if len(frames) == 0 {
		return spritegrid.Params{}, false
	}

	counts := make(map[image.Point]int)
	var order []image.Point
	xs := make(map[int]struct{})
	minX := frames[0].Atlas.Min.X
	for _, f := range frames {
		size := f.Atlas.Size()
		if counts[size] == 0 {
			order = append(order, size)
		}
		counts[size]++
		xs[f.Atlas.Min.X] = struct{}{}
		minX = min(minX, f.Atlas.Min.X)
	}

	tile := order[0]
	for _, size := range order[1:] {
		if counts[size] > counts[tile] {
			tile = size
		}
	}

	spacing := 0
	if len(xs) > 1 {
		sorted := slices.Sorted(maps.Keys(xs))
		gap := sorted[1] - sorted[0]
		for i := 2; i < len(sorted); i++ {
			gap = min(gap, sorted[i]-sorted[i-1])
		}
		spacing = max(0, gap-tile.X)
	}

	return spritegrid.Params{
		Tile:    spritegrid.Size{W: tile.X, H: tile.Y},
		Margin:  minX,
		Spacing: spacing,
	}, true
}
