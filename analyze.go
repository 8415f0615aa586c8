package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/sheetanim/sheetanim/config"
	"github.com/sheetanim/sheetanim/frameanalysis"
	"github.com/sheetanim/sheetanim/sheet"
	"github.com/sheetanim/sheetanim/spritegrid"
)

type sheetReport struct {
	path     string
	sheet    *sheet.Sheet
	stats    frameanalysis.Stats
	warnings []string
	err      error
}

func runAnalyze(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	var gf gridFlags
	gf.register(fs, cfg)
	autoTile := fs.Bool("auto-tile", false, "pick the tile size from common sprite sizes")
	autoThreshold := fs.Bool("suggest-threshold", false, "derive the alpha threshold from each sheet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("%w: analyze needs at least one image", errUsage)
	}

	mgr := sheet.NewManager()
	reports := make([]sheetReport, len(paths))
	bar := progressbar.Default(int64(len(paths)), "analyze")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = analyzeSheet(mgr, path, &gf, *autoTile, *autoThreshold)
			bar.Describe(fmt.Sprintf("analyze: %s", path))
			bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	bar.Finish()

	var errs []error
	for _, rep := range reports {
		if rep.err != nil {
			errs = append(errs, rep.err)
			continue
		}
		printReport(os.Stdout, rep)
	}
	fmt.Printf("%d sheets analyzed, %d bytes of pixel data\n", mgr.Len(), mgr.MemoryUsage())
	return errors.Join(errs...)
}

// analyzeSheet opens one sheet and analyzes every cell. Each sheet owns its
// analyzer, so sheets can be processed in parallel.
func analyzeSheet(mgr *sheet.Manager, path string, gf *gridFlags, autoTile, autoThreshold bool) sheetReport {
	s, err := mgr.Open(path, gf.options())
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open sheet")
		return sheetReport{path: path, err: err}
	}

	if autoTile && !gf.tile.set {
		g := s.Grid()
		if tile, ok := sheet.SuggestTileSize(g.Width(), g.Height()); ok {
			if err := s.Reconfigure(tile, spritegrid.WithMargin(gf.margin), spritegrid.WithSpacing(gf.spacing)); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Suggested tile rejected")
			}
		}
	}
	if autoThreshold {
		s.SetAlphaThreshold(frameanalysis.SuggestAlphaThreshold(s.Image, s.Image.Bounds()))
	}

	return sheetReport{
		path:     path,
		sheet:    s,
		stats:    s.Statistics(),
		warnings: s.Validate(),
	}
}

func printReport(w io.Writer, rep sheetReport) {
	s, st := rep.sheet, rep.stats
	fmt.Fprintf(w, "%s\n", rep.path)
	fmt.Fprintf(w, "  %s\n", s.Grid())
	fmt.Fprintf(w, "  alpha threshold: %d\n", s.AlphaThreshold())
	fmt.Fprintf(w, "  frames: %d total, %d with content, %d empty\n", st.TotalFrames, st.FramesWithContent, st.EmptyFrames)
	fmt.Fprintf(w, "  pixels: %d original, %d trimmed, %d saved (%.1f%%)\n", st.OriginalPixels, st.TrimmedPixels, st.SavedPixels, st.SavedPercent)
	if st.HasCommonSize {
		fmt.Fprintf(w, "  most common trimmed size: %dx%d (%d frames)\n",
			st.MostCommonSize.X, st.MostCommonSize.Y, st.SizeDistribution[st.MostCommonSize])
	}
	for _, warning := range rep.warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
