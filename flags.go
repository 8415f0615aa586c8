package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/sheetanim/sheetanim/config"
	"github.com/sheetanim/sheetanim/sheet"
	"github.com/sheetanim/sheetanim/spritegrid"
)

// ---------- 参数解析 / Argument parsing ----------

// parseSize accepts "WxH" or a single number for square tiles.
func parseSize(s string) (spritegrid.Size, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	ws, hs, found := strings.Cut(s, "x")
	if !found {
		hs = ws
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return spritegrid.Size{}, fmt.Errorf("%w: bad size %q", errUsage, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return spritegrid.Size{}, fmt.Errorf("%w: bad size %q", errUsage, s)
	}
	if w <= 0 || h <= 0 {
		return spritegrid.Size{}, fmt.Errorf("%w: size %q must be positive", errUsage, s)
	}
	return spritegrid.Size{W: w, H: h}, nil
}

// parsePositions reads "row,col;row,col". Order and duplicates are kept.
func parsePositions(s string) ([]spritegrid.Position, error) {
	var out []spritegrid.Position
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rs, cs, found := strings.Cut(part, ",")
		if !found {
			return nil, fmt.Errorf("%w: bad position %q, want row,col", errUsage, part)
		}
		row, err := strconv.Atoi(strings.TrimSpace(rs))
		if err != nil {
			return nil, fmt.Errorf("%w: bad row in %q", errUsage, part)
		}
		col, err := strconv.Atoi(strings.TrimSpace(cs))
		if err != nil {
			return nil, fmt.Errorf("%w: bad column in %q", errUsage, part)
		}
		out = append(out, spritegrid.Position{Row: row, Col: col})
	}
	return out, nil
}

type sizeValue struct {
	size spritegrid.Size
	set  bool
}

func (v *sizeValue) String() string {
	if v == nil {
		return ""
	}
	return v.size.String()
}

func (v *sizeValue) Set(s string) error {
	size, err := parseSize(s)
	if err != nil {
		return err
	}
	v.size, v.set = size, true
	return nil
}

// positionsValue accumulates positions across repeated -frames flags.
type positionsValue []spritegrid.Position

func (v *positionsValue) String() string {
	if v == nil {
		return ""
	}
	parts := make([]string, len(*v))
	for i, p := range *v {
		parts[i] = fmt.Sprintf("%d,%d", p.Row, p.Col)
	}
	return strings.Join(parts, ";")
}

func (v *positionsValue) Set(s string) error {
	ps, err := parsePositions(s)
	if err != nil {
		return err
	}
	*v = append(*v, ps...)
	return nil
}

// ---------- 网格参数 / Grid flags ----------

// gridFlags are the sheet options shared by the commands that open sheets.
// Unset flags fall back to the configuration.
type gridFlags struct {
	tile      sizeValue
	margin    int
	spacing   int
	threshold int
	fs        *flag.FlagSet
}

func (g *gridFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	g.fs = fs
	g.tile.size = cfg.DefaultTile
	fs.Var(&g.tile, "tile", "tile size as WxH or N")
	fs.IntVar(&g.margin, "margin", cfg.Margin, "pixels between the image edge and the first tile")
	fs.IntVar(&g.spacing, "spacing", cfg.Spacing, "pixels between adjacent tiles")
	fs.IntVar(&g.threshold, "threshold", cfg.AlphaThreshold, "alpha threshold (0-255) above which a pixel is content")
}

func (g *gridFlags) isSet(name string) bool {
	set := false
	g.fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// geometrySet reports whether any of tile, margin or spacing was given.
func (g *gridFlags) geometrySet() bool {
	return g.tile.set || g.isSet("margin") || g.isSet("spacing")
}

func (g *gridFlags) options() sheet.Options {
	return sheet.Options{
		Tile:           g.tile.size,
		Margin:         g.margin,
		Spacing:        g.spacing,
		AlphaThreshold: g.threshold,
	}
}

// withParams overrides the grid geometry with p unless the user gave any
// geometry flag.
func (g *gridFlags) withParams(p spritegrid.Params) sheet.Options {
	opts := g.options()
	if g.geometrySet() {
		return opts
	}
	opts.Tile, opts.Margin, opts.Spacing = p.Tile, p.Margin, p.Spacing
	return opts
}
