package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sheetanim/sheetanim/animfile"
	"github.com/sheetanim/sheetanim/config"
	"github.com/sheetanim/sheetanim/selection"
	"github.com/sheetanim/sheetanim/sheet"
	"github.com/sheetanim/sheetanim/spritegrid"
)

// exportJob writes one animation: the JSON description, optionally the
// companion script and optionally one PNG per frame.
type exportJob struct {
	sheet     *sheet.Sheet
	name      string
	positions []spritegrid.Position
	out       string
	script    bool

	// durations carries per-cell frame durations in milliseconds into the
	// export. Cells without an entry keep the reader's default.
	durations map[spritegrid.Position]int

	framesDir string
	scale     int
	untrimmed bool
}

func (j *exportJob) run() (*animfile.Document, error) {
	doc, skipped, err := animfile.Build(j.sheet, j.name, j.positions, j.out)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("animation", j.name).Msg("Some frames could not be analyzed")
	}
	if len(doc.Frames) == 0 {
		return nil, animfile.ErrEmptySelection
	}
	for i := range doc.Frames {
		if pos, ok := doc.Frames[i].GridPosition(); ok {
			doc.Frames[i].Duration = j.durations[pos]
		}
	}

	if err := animfile.WriteJSON(j.out, doc); err != nil {
		return nil, err
	}
	if j.script {
		if err := animfile.WriteScript(animfile.ScriptPath(j.out), doc); err != nil {
			return nil, err
		}
	}
	if j.framesDir != "" {
		if err := j.writeFrames(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// writeFrames saves every exported frame as <name>_<index>.png.
func (j *exportJob) writeFrames(doc *animfile.Document) error {
	if err := os.MkdirAll(j.framesDir, 0o755); err != nil {
		return fmt.Errorf("create frames dir: %w", err)
	}
	for i, f := range doc.Frames {
		pos, _ := f.GridPosition()
		img, err := j.sheet.TrimmedImage(pos.Row, pos.Col)
		if j.untrimmed {
			img, err = j.sheet.CellImage(pos.Row, pos.Col)
		}
		if err != nil {
			return err
		}
		path := filepath.Join(j.framesDir, fmt.Sprintf("%s_%03d.png", doc.Animation, i))
		if err := writePNG(path, sheet.Scale(img, j.scale)); err != nil {
			return err
		}
	}
	log.Info().Str("dir", j.framesDir).Int("frames", len(doc.Frames)).Msg("Frame images written")
	return nil
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func defaultExportPath(cfg *config.Config, name string) string {
	return filepath.Join(cfg.ExportDir, name+".json")
}

// exportFlags are the output options shared by export and import-aseprite.
type exportFlags struct {
	out       string
	script    bool
	framesDir string
	scale     int
	untrimmed bool
}

func (e *exportFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&e.out, "out", "", "output JSON path (default: <export_dir>/<name>.json)")
	fs.BoolVar(&e.script, "script", cfg.ExportScript, "also write the companion Python script")
	fs.StringVar(&e.framesDir, "frames-dir", "", "also write each frame as a PNG into this directory")
	fs.IntVar(&e.scale, "scale", 1, "integer upscale factor for -frames-dir images")
	fs.BoolVar(&e.untrimmed, "untrimmed", false, "write whole cells to -frames-dir instead of trimmed content")
}

func (e *exportFlags) job(cfg *config.Config, s *sheet.Sheet, name string, sel *selection.Selection) *exportJob {
	out := e.out
	if out == "" {
		out = defaultExportPath(cfg, name)
	}
	return &exportJob{
		sheet:     s,
		name:      name,
		positions: sel.Positions(),
		out:       out,
		script:    e.script,
		durations: make(map[spritegrid.Position]int),
		framesDir: e.framesDir,
		scale:     e.scale,
		untrimmed: e.untrimmed,
	}
}

// ---------- export 命令 / export command ----------

func runExport(_ context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var gf gridFlags
	gf.register(fs, cfg)
	var ef exportFlags
	ef.register(fs, cfg)
	sheetPath := fs.String("sheet", "", "sprite sheet image")
	name := fs.String("name", "", "animation name")
	from := fs.String("from", "", "start from the frames of an existing animation file")
	all := fs.Bool("all", false, "select every cell in row-major order")
	var frames positionsValue
	fs.Var(&frames, "frames", `cells to export in order, as "row,col;row,col"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := gf.options()
	var base *animfile.Document
	if *from != "" {
		doc, err := animfile.ReadFile(*from)
		if err != nil {
			return err
		}
		base = doc
		if *sheetPath == "" {
			p, ok := sheet.ResolvePath(*from, doc.Sheet)
			if !ok {
				return fmt.Errorf("%w: sheet %q referenced by %s", sheet.ErrNotFound, doc.Sheet, *from)
			}
			*sheetPath = p
		}
		opts = gf.withParams(spritegrid.Params{Tile: doc.TileSize(), Margin: doc.Margin, Spacing: doc.Spacing})
		if *name == "" {
			*name = doc.Animation
		}
	}
	if *sheetPath == "" {
		return fmt.Errorf("%w: -sheet is required", errUsage)
	}

	s, err := sheet.Load(*sheetPath, opts)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = s.Name
	}

	sel := selection.New()
	durations := make(map[spritegrid.Position]int)
	if base != nil {
		var dropped int
		sel, dropped = selection.FromFrames(base.Frames, s.Grid())
		if dropped > 0 {
			log.Warn().Int("dropped", dropped).Str("from", *from).Msg("Frames outside the grid were dropped")
		}
		for _, f := range base.Frames {
			if f.Duration <= 0 {
				continue
			}
			pos, ok := f.GridPosition()
			if !ok {
				pos = s.Grid().PositionAt(f.X, f.Y)
			}
			durations[pos] = f.Duration
		}
	}
	if *all {
		sel.SelectAll(s.Grid())
	}
	for _, pos := range frames {
		sel.Add(pos)
	}
	if n := sel.Prune(s.Grid()); n > 0 {
		log.Warn().Int("removed", n).Msg("Positions outside the grid were ignored")
	}
	if sel.Len() == 0 {
		return fmt.Errorf("%w: select frames with -frames, -all or -from", errUsage)
	}

	job := ef.job(cfg, s, *name, sel)
	job.durations = durations
	doc, err := job.run()
	if err != nil {
		if errors.Is(err, animfile.ErrEmptyName) {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return err
	}
	fmt.Printf("exported %q: %d frames to %s\n", doc.Animation, len(doc.Frames), job.out)
	return nil
}
