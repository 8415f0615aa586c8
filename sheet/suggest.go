package sheet

import "github.com/sheetanim/sheetanim/spritegrid"

// commonTileSizes are tried in order by SuggestTileSize.
var commonTileSizes = []spritegrid.Size{
	{W: 16, H: 16}, {W: 32, H: 32}, {W: 64, H: 64},
	{W: 24, H: 24}, {W: 48, H: 48}, {W: 96, H: 96},
	{W: 16, H: 24}, {W: 32, H: 48}, {W: 24, H: 32},
	{W: 90, H: 37},
}

// SuggestTileSize picks the common tile size that best fits a width x height
// image. Each size scores coverage*(cols+rows), where coverage is the share of
// the image covered by whole tiles; ties keep the earlier size. ok is false
// when no size fits at all.
func SuggestTileSize(width, height int) (best spritegrid.Size, ok bool) {
	if width <= 0 || height <= 0 {
		return spritegrid.Size{}, false
	}
	bestScore := 0.0
	for _, size := range commonTileSizes {
		cols, rows := width/size.W, height/size.H
		coverage := float64(cols*size.W*rows*size.H) / float64(width*height)
		score := coverage * float64(cols+rows)
		if score > bestScore {
			bestScore, best, ok = score, size, true
		}
	}
	return best, ok
}
