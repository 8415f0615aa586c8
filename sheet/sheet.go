// Package sheet loads sprite sheet images and ties each one to its grid and
// frame analyzer.
package sheet

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/sheetanim/sheetanim/frameanalysis"
	"github.com/sheetanim/sheetanim/spritegrid"
)

var (
	ErrNotFound    = errors.New("sheet: file not found")
	ErrNotReadable = errors.New("sheet: no read permission")
	ErrDecode      = errors.New("sheet: failed to decode image")
)

// Options configures a sheet at load time. A zero Tile means 32x32.
type Options struct {
	Name           string
	Tile           spritegrid.Size
	Margin         int
	Spacing        int
	AlphaThreshold int
}

// Sheet is an opened sprite sheet. The pixel data is normalised to NRGBA
// with its origin at (0,0). A Sheet is owned by one caller at a time.
type Sheet struct {
	ID    uuid.UUID
	Name  string
	Image *image.NRGBA

	path     string
	grid     *spritegrid.Grid
	analyzer *frameanalysis.Analyzer
}

// Load opens, checks and decodes the image at path and builds its grid.
func Load(path string, opts Options) (*Sheet, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := checkReadable(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotReadable, path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotReadable, path, err)
	}
	defer f.Close()

	// 先读尺寸，超限的图不做完整解码。
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > spritegrid.MaxDimension || cfg.Height > spritegrid.MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d (max %dx%d)", spritegrid.ErrInvalidDimensions,
			cfg.Width, cfg.Height, spritegrid.MaxDimension, spritegrid.MaxDimension)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	s, err := FromImage(path, img, opts)
	if err != nil {
		return nil, err
	}
	sheetLog().Info().
		Str("path", path).
		Str("format", format).
		Str("id", s.ID.String()).
		Str("grid", s.grid.String()).
		Msg("sprite sheet loaded")
	return s, nil
}

// FromImage wraps an already decoded image. path is recorded for export and
// may be empty.
func FromImage(path string, img image.Image, opts Options) (*Sheet, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", spritegrid.ErrInvalidDimensions)
	}
	tile := opts.Tile
	if tile.W == 0 && tile.H == 0 {
		tile = spritegrid.Size{W: 32, H: 32}
	}
	nrgba := toNRGBA(img)
	g, err := spritegrid.New(nrgba.Rect.Dx(), nrgba.Rect.Dy(), tile, opts.Margin, opts.Spacing)
	if err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" && path != "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	s := &Sheet{
		ID:       uuid.New(),
		path:     path,
		Name:     name,
		Image:    nrgba,
		grid:     g,
		analyzer: frameanalysis.NewAnalyzer(opts.AlphaThreshold),
	}
	// 网格变化后，旧的分析结果全部作废。
	g.OnReconfigure(s.analyzer.ClearCache)
	return s, nil
}

// toNRGBA copies img into a fresh NRGBA whose bounds start at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// Path is the file the sheet was loaded from, empty for in-memory sheets.
func (s *Sheet) Path() string { return s.path }

func (s *Sheet) Grid() *spritegrid.Grid { return s.grid }

func (s *Sheet) Analyzer() *frameanalysis.Analyzer { return s.analyzer }

func (s *Sheet) AlphaThreshold() int { return s.analyzer.Threshold() }

func (s *Sheet) SetAlphaThreshold(v int) { s.analyzer.SetAlphaThreshold(v) }

// Reconfigure changes the tile geometry. It fails, leaving the grid as it
// was, when the new geometry yields no cells.
func (s *Sheet) Reconfigure(tile spritegrid.Size, opts ...spritegrid.Option) error {
	prev := s.grid.Params()
	s.grid.Reconfigure(tile, opts...)
	if s.grid.Rows() <= 0 || s.grid.Cols() <= 0 {
		s.grid.Apply(prev)
		return fmt.Errorf("%w: tile %s yields no cells", spritegrid.ErrInvalidGrid, tile)
	}
	return nil
}

// Analyze returns the cached or freshly computed analysis of one cell.
func (s *Sheet) Analyze(row, col int) (frameanalysis.Result, bool) {
	rect, err := s.grid.CellRect(row, col)
	if err != nil {
		sheetLog().Debug().Err(err).Msg("analyze skipped")
		return frameanalysis.Result{}, false
	}
	cell := spritegrid.Cell{Position: spritegrid.Position{Row: row, Col: col}, Rect: rect}
	return s.analyzer.Analyze(s.ID.String(), s.Image, cell)
}

// AnalyzeAll analyzes every cell in row-major order.
func (s *Sheet) AnalyzeAll() frameanalysis.Batch {
	return s.analyzer.BatchAnalyze(s.ID.String(), s.Image, s.grid.Cells())
}

// Statistics aggregates the analysis of every cell.
func (s *Sheet) Statistics() frameanalysis.Stats {
	return frameanalysis.AggregateStatistics(s.AnalyzeAll())
}

// Validate reports non-fatal grid problems.
func (s *Sheet) Validate() []string { return s.grid.Validate() }

// MemoryUsage approximates the pixel buffer size in bytes.
func (s *Sheet) MemoryUsage() int { return len(s.Image.Pix) }

func (s *Sheet) String() string {
	return fmt.Sprintf("Sheet(%s, %dx%d, %s)", s.Name, s.Image.Rect.Dx(), s.Image.Rect.Dy(), s.grid)
}
