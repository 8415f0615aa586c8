package frameanalysis

import (
	"image"

	"github.com/sheetanim/sheetanim/spritegrid"
)

// DefaultAlphaThreshold is the alpha value a pixel must exceed to count as content.
const DefaultAlphaThreshold = 16

// Result 是单个格子的分析结果。
//
// Result describes the non-transparent content of one grid cell.
// Original and Trimmed are in sheet pixel space; Pivot is relative to the
// trimmed rectangle's origin; Offset is the trimmed origin relative to the
// cell origin.
type Result struct {
	Original   image.Rectangle
	Trimmed    image.Rectangle
	Pivot      image.Point
	Offset     image.Point
	HasContent bool
}

// SheetPivot returns the pivot in sheet pixel coordinates.
func (r Result) SheetPivot() image.Point {
	return r.Trimmed.Min.Add(r.Pivot)
}

// CacheKey identifies one cached analysis. The rectangle carries the tile
// geometry, so a cell keeps distinct entries across grid configurations.
type CacheKey struct {
	Sheet     string
	Row, Col  int
	Rect      image.Rectangle
	Threshold int
}

// Analyzer scans cells for content bounds and caches the results.
// It is not safe for concurrent use; each open sheet owns one Analyzer.
type Analyzer struct {
	threshold int
	cache     map[CacheKey]Result
	scans     int
}

// NewAnalyzer creates an analyzer using threshold, clamped to [0,255].
func NewAnalyzer(threshold int) *Analyzer {
	return &Analyzer{
		threshold: clampAlpha(threshold),
		cache:     make(map[CacheKey]Result),
	}
}

// Threshold returns the current alpha threshold.
func (a *Analyzer) Threshold() int { return a.threshold }

// SetAlphaThreshold clamps value to [0,255] and drops every cached result,
// since the threshold affects all of them.
func (a *Analyzer) SetAlphaThreshold(value int) {
	a.threshold = clampAlpha(value)
	a.ClearCache()
}

// ClearCache drops all cached results.
func (a *Analyzer) ClearCache() {
	clear(a.cache)
}

// CacheLen returns the number of cached results.
func (a *Analyzer) CacheLen() int { return len(a.cache) }

// Scans returns how many pixel scans the analyzer has performed. Cache hits
// do not count.
func (a *Analyzer) Scans() int { return a.scans }

// Analyze 扫描格子内所有像素，计算裁剪框、轴心点与偏移。
//
// Analyze scans every pixel of cell.Rect inside img. A pixel is content iff
// its alpha is strictly greater than the threshold. The second return value
// is false when the rectangle is empty or not inside the image; such failures
// are logged and never cached.
func (a *Analyzer) Analyze(sheetID string, img image.Image, cell spritegrid.Cell) (Result, bool) {
	key := CacheKey{
		Sheet:     sheetID,
		Row:       cell.Row,
		Col:       cell.Col,
		Rect:      cell.Rect,
		Threshold: a.threshold,
	}
	if r, ok := a.cache[key]; ok {
		return r, true
	}

	if img == nil || cell.Rect.Empty() || !cell.Rect.In(img.Bounds()) {
		var bounds image.Rectangle
		if img != nil {
			bounds = img.Bounds()
		}
		anaLog().Warn().
			Str("sheet", sheetID).
			Int("row", cell.Row).
			Int("col", cell.Col).
			Str("rect", cell.Rect.String()).
			Str("bounds", bounds.String()).
			Msg("cell rect outside sheet, skipping analysis")
		return Result{}, false
	}

	r := a.scan(img, cell.Rect)
	a.scans++
	a.cache[key] = r
	return r, true
}

// scan finds the minimal box containing every content pixel of rect.
func (a *Analyzer) scan(img image.Image, rect image.Rectangle) Result {
	w, h := rect.Dx(), rect.Dy()
	minX, minY := w, h
	maxX, maxY := -1, -1

	alphaAt := alphaReader(img)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if alphaAt(rect.Min.X+x, rect.Min.Y+y) <= a.threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX == -1 {
		// 没有不透明像素：使用整个格子
		return Result{
			Original: rect,
			Trimmed:  rect,
			Pivot:    image.Pt(w/2, h-1),
			Offset:   image.Point{},
		}
	}

	tw := maxX - minX + 1
	th := maxY - minY + 1
	origin := rect.Min.Add(image.Pt(minX, minY))
	return Result{
		Original:   rect,
		Trimmed:    image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tw, th))},
		Pivot:      image.Pt(tw/2, th-1),
		Offset:     image.Pt(minX, minY),
		HasContent: true,
	}
}

// alphaReader returns a fast 8-bit alpha accessor for the common image
// types and a generic one for everything else.
func alphaReader(img image.Image) func(x, y int) int {
	switch m := img.(type) {
	case *image.NRGBA:
		return func(x, y int) int { return int(m.Pix[m.PixOffset(x, y)+3]) }
	case *image.RGBA:
		return func(x, y int) int { return int(m.Pix[m.PixOffset(x, y)+3]) }
	case *image.Alpha:
		return func(x, y int) int { return int(m.Pix[m.PixOffset(x, y)]) }
	default:
		return func(x, y int) int {
			_, _, _, a := img.At(x, y).RGBA()
			return int(a >> 8)
		}
	}
}

// ---------- 批量分析 / Batch ----------

// Batch holds results keyed by grid position, plus the order in which
// positions were first analyzed.
type Batch struct {
	Positions []spritegrid.Position
	Results   map[spritegrid.Position]Result
}

// Get returns the result for pos.
func (b Batch) Get(pos spritegrid.Position) (Result, bool) {
	r, ok := b.Results[pos]
	return r, ok
}

// Len returns the number of analyzed positions.
func (b Batch) Len() int { return len(b.Positions) }

// BatchAnalyze analyzes every cell, skipping cells that produce no result.
func (a *Analyzer) BatchAnalyze(sheetID string, img image.Image, cells []spritegrid.Cell) Batch {
	b := Batch{Results: make(map[spritegrid.Position]Result, len(cells))}
	for _, cell := range cells {
		r, ok := a.Analyze(sheetID, img, cell)
		if !ok {
			continue
		}
		if _, seen := b.Results[cell.Position]; !seen {
			b.Positions = append(b.Positions, cell.Position)
		}
		b.Results[cell.Position] = r
	}
	anaLog().Debug().
		Str("sheet", sheetID).
		Int("cells", len(cells)).
		Int("analyzed", b.Len()).
		Msg("batch analysis done")
	return b
}

func clampAlpha(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
