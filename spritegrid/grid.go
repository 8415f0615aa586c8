package spritegrid

import (
	"errors"
	"fmt"
	"image"
)

// MaxDimension is the largest accepted sheet width or height in pixels.
const MaxDimension = 8192

var (
	ErrInvalidDimensions = errors.New("spritegrid: invalid image dimensions")
	ErrInvalidGrid       = errors.New("spritegrid: invalid grid configuration")
	ErrOutOfBounds       = errors.New("spritegrid: cell out of bounds")
)

// Size is a tile size in pixels.
type Size struct {
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Position addresses one grid cell.
type Position struct {
	Row int
	Col int
}

// Cell is an addressable grid position together with its pixel rectangle.
type Cell struct {
	Position
	Rect image.Rectangle
}

// Params is the tile geometry of a grid: tile size, outer margin and the gap
// between neighbouring tiles.
type Params struct {
	Tile    Size
	Margin  int
	Spacing int
}

// Grid divides a sprite sheet of fixed pixel dimensions into equally sized
// tiles. Width and height never change after construction; the tile geometry
// may be changed with Reconfigure.
type Grid struct {
	width, height int
	params        Params
	rows, cols    int

	onReconfigure []func()
}

// New builds a grid for an image of width x height pixels.
func New(width, height int, tile Size, margin, spacing int) (*Grid, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d (max %dx%d)", ErrInvalidDimensions, width, height, MaxDimension, MaxDimension)
	}
	if tile.W <= 0 || tile.H <= 0 || margin < 0 || spacing < 0 {
		return nil, fmt.Errorf("%w: tile %s margin %d spacing %d", ErrInvalidGrid, tile, margin, spacing)
	}

	g := &Grid{
		width:  width,
		height: height,
		params: Params{Tile: tile, Margin: margin, Spacing: spacing},
	}
	g.compute()
	if g.rows <= 0 || g.cols <= 0 {
		return nil, fmt.Errorf("%w: produces %dx%d tiles", ErrInvalidGrid, g.rows, g.cols)
	}
	return g, nil
}

// compute derives rows and cols: n = floor((span - margin + spacing) / (tile + spacing)).
func (g *Grid) compute() {
	p := g.params
	g.cols = fit(g.width, p.Tile.W, p.Margin, p.Spacing)
	g.rows = fit(g.height, p.Tile.H, p.Margin, p.Spacing)
}

func fit(span, tile, margin, spacing int) int {
	step := tile + spacing
	if tile <= 0 || step <= 0 {
		return 0
	}
	n := floorDiv(span-margin+spacing, step)
	if n < 0 {
		return 0
	}
	return n
}

// Option changes a single geometry parameter during Reconfigure.
type Option func(*Params)

// WithMargin replaces the margin.
func WithMargin(margin int) Option {
	return func(p *Params) { p.Margin = margin }
}

// WithSpacing replaces the spacing.
func WithSpacing(spacing int) Option {
	return func(p *Params) { p.Spacing = spacing }
}

// Reconfigure recomputes the grid in place. Margin and spacing keep their
// previous values unless overridden by an option. The result may have zero
// rows or columns; callers must check. Registered reconfigure hooks run
// afterwards so dependent caches can be dropped.
func (g *Grid) Reconfigure(tile Size, opts ...Option) {
	g.params.Tile = tile
	for _, opt := range opts {
		opt(&g.params)
	}
	g.compute()
	for _, fn := range g.onReconfigure {
		fn()
	}
}

// Apply reconfigures the grid to p.
func (g *Grid) Apply(p Params) {
	g.Reconfigure(p.Tile, WithMargin(p.Margin), WithSpacing(p.Spacing))
}

// OnReconfigure registers fn to run after every Reconfigure call.
func (g *Grid) OnReconfigure(fn func()) {
	if fn != nil {
		g.onReconfigure = append(g.onReconfigure, fn)
	}
}

func (g *Grid) Width() int      { return g.width }
func (g *Grid) Height() int     { return g.height }
func (g *Grid) Params() Params  { return g.params }
func (g *Grid) Tile() Size      { return g.params.Tile }
func (g *Grid) Margin() int     { return g.params.Margin }
func (g *Grid) Spacing() int    { return g.params.Spacing }
func (g *Grid) Rows() int       { return g.rows }
func (g *Grid) Cols() int       { return g.cols }
func (g *Grid) TotalCells() int { return g.rows * g.cols }

// Contains reports whether (row, col) is an addressable cell.
func (g *Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// CellRect returns the pixel rectangle of (row, col) in sheet space.
// Cells outside the grid, or whose rectangle would cross the image edge,
// are reported as ErrOutOfBounds; partial tiles are never clamped.
func (g *Grid) CellRect(row, col int) (image.Rectangle, error) {
	if !g.Contains(row, col) {
		return image.Rectangle{}, fmt.Errorf("%w: (%d, %d) outside %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	p := g.params
	x := p.Margin + col*(p.Tile.W+p.Spacing)
	y := p.Margin + row*(p.Tile.H+p.Spacing)
	r := image.Rect(x, y, x+p.Tile.W, y+p.Tile.H)
	if !r.In(image.Rect(0, 0, g.width, g.height)) {
		return image.Rectangle{}, fmt.Errorf("%w: (%d, %d) extends beyond image", ErrOutOfBounds, row, col)
	}
	return r, nil
}

// Cells lists every addressable cell in row-major order.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.TotalCells())
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			r, err := g.CellRect(row, col)
			if err != nil {
				continue
			}
			cells = append(cells, Cell{Position: Position{Row: row, Col: col}, Rect: r})
		}
	}
	return cells
}

// PositionAt maps a sheet pixel to the grid position whose tile pitch it
// falls in, using floor division. The result may lie outside the grid;
// check it with Contains.
func (g *Grid) PositionAt(x, y int) Position {
	p := g.params
	return Position{
		Row: floorDiv(y-p.Margin, p.Tile.H+p.Spacing),
		Col: floorDiv(x-p.Margin, p.Tile.W+p.Spacing),
	}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d px, %dx%d tiles of %s, margin %d, spacing %d)",
		g.width, g.height, g.rows, g.cols, g.params.Tile, g.params.Margin, g.params.Spacing)
}

// floorDiv divides rounding toward negative infinity. A zero divisor yields
// -1 so the result is never an addressable cell.
func floorDiv(a, b int) int {
	if b == 0 {
		return -1
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
