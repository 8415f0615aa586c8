package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sheetanim/sheetanim/config"
	"github.com/sheetanim/sheetanim/frameanalysis"
	"github.com/sheetanim/sheetanim/sheet"
)

func runSuggest(_ context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: suggest needs at least one image", errUsage)
	}
	for _, path := range fs.Args() {
		s, err := sheet.Load(path, sheet.Options{Tile: cfg.DefaultTile, AlphaThreshold: cfg.AlphaThreshold})
		if err != nil {
			return err
		}
		g := s.Grid()
		fmt.Printf("%s (%dx%d)\n", path, g.Width(), g.Height())
		if tile, ok := sheet.SuggestTileSize(g.Width(), g.Height()); ok {
			fmt.Printf("  tile: %s\n", tile)
		} else {
			fmt.Printf("  tile: no common size divides the sheet, keeping %s\n", g.Tile())
		}
		fmt.Printf("  alpha threshold: %d\n", frameanalysis.SuggestAlphaThreshold(s.Image, s.Image.Bounds()))
	}
	return nil
}
