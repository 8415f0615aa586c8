package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sheetanim/sheetanim/catalog"
	"github.com/sheetanim/sheetanim/config"
	"github.com/sheetanim/sheetanim/sheet"
	"github.com/sheetanim/sheetanim/source"
)

func runCatalog(_ context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	showInvalid := fs.Bool("invalid", false, "also list files that are not valid animation descriptions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dirs := fs.Args()
	if len(dirs) == 0 {
		dirs = cfg.AnimationDirs
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	cat := catalog.New()
	for _, dir := range dirs {
		if _, err := cat.AddFolder(dir, ""); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Folder skipped")
		}
	}
	reg := source.NewRegistry(source.NewFolderSource(cat))

	for _, folder := range cat.Folders() {
		fmt.Printf("%s (%s, %d animations)\n", folder.Name, folder.Path, len(folder.Records))
		for _, rec := range folder.Records {
			d, ok := reg.Lookup(source.FolderID(rec.Path))
			if !ok {
				continue
			}
			sheetState := "missing"
			if p, found := sheet.ResolvePath(rec.Path, rec.Sheet); found {
				sheetState = p
				if rel, err := filepath.Rel(folder.Path, p); err == nil {
					sheetState = rel
				}
			}
			fmt.Printf("  %-24s %3d frames %6d ms  %s  sheet: %s\n",
				d.Name, d.FrameCount, rec.TotalDuration(cfg.FrameDurationMS).Milliseconds(), rec.FrameSize, sheetState)
		}

		if !*showInvalid {
			continue
		}
		all, err := catalog.Discover(folder.Path)
		if err != nil {
			log.Warn().Err(err).Str("dir", folder.Path).Msg("Rescan failed")
			continue
		}
		for _, rec := range all {
			if !rec.Valid() {
				fmt.Printf("  invalid: %s: %s\n", filepath.Base(rec.Path), rec.Problem)
			}
		}
	}
	return nil
}

func runInfo(_ context.Context, _ *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: info needs at least one animation file", errUsage)
	}
	for _, path := range fs.Args() {
		md := catalog.ExtractMetadata(path)
		fmt.Printf("%s\n", path)
		fmt.Printf("  name: %s\n  sheet: %s\n  frames: %d of %dx%d\n  margin: %d spacing: %d\n  order: %s\n",
			md.Name, md.Sheet, md.FrameCount, md.FrameSize[0], md.FrameSize[1], md.Margin, md.Spacing, md.Order)
		if err := catalog.ValidateFile(path); err != nil {
			fmt.Printf("  invalid: %v\n", err)
		}
	}
	return nil
}
