package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sheetanim/sheetanim/config"
	"github.com/sheetanim/sheetanim/selection"
	"github.com/sheetanim/sheetanim/sheet"
	"github.com/sheetanim/sheetanim/source"
)

func runImportAseprite(_ context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import-aseprite", flag.ContinueOnError)
	var gf gridFlags
	gf.register(fs, cfg)
	var ef exportFlags
	ef.register(fs, cfg)
	tag := fs.String("tag", "", "export this tag as an animation file")
	sheetPath := fs.String("sheet", "", "sheet image (default: meta.image of the document)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import-aseprite takes one JSON file", errUsage)
	}

	reg := source.NewRegistry(nil)
	src, err := reg.ImportAseprite(fs.Arg(0))
	if err != nil {
		return err
	}
	doc := src.Document()
	fmt.Println(doc.Summary())
	for _, w := range doc.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	var target *source.Descriptor
	for _, d := range reg.Descriptors() {
		total := 0
		for _, ref := range reg.Frames(d.ID) {
			total += ref.DurationMS
		}
		fmt.Printf("  %-24s %3d frames %6d ms\n", d.Name, d.FrameCount, total)
		if d.Name == *tag {
			target = &d
		}
	}
	if *tag == "" {
		return nil
	}
	if target == nil {
		return fmt.Errorf("%w: tag %q", source.ErrUnknownID, *tag)
	}

	path := *sheetPath
	if path == "" {
		path = doc.ImagePath
	}
	if path == "" {
		return fmt.Errorf("%w: the document names no image, pass -sheet", errUsage)
	}
	opts := gf.options()
	if params, ok := selection.InferGrid(doc.Frames); ok {
		opts = gf.withParams(params)
	}
	s, err := sheet.Load(path, opts)
	if err != nil {
		return err
	}

	sel, dropped, err := reg.Select(target.ID, s.Grid())
	if err != nil {
		return err
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Str("tag", *tag).Str("grid", s.Grid().String()).Msg("Frames outside the grid were dropped")
	}
	if sel.Len() == 0 {
		return fmt.Errorf("tag %q has no frames on %s", *tag, s.Grid())
	}

	job := ef.job(cfg, s, *tag, sel)
	for _, ref := range reg.Frames(target.ID) {
		atlas := doc.Frames[ref.Index].Atlas
		job.durations[s.Grid().PositionAt(atlas.Min.X, atlas.Min.Y)] = ref.DurationMS
	}
	out, err := job.run()
	if err != nil {
		return err
	}
	fmt.Printf("exported %q: %d frames to %s\n", out.Animation, len(out.Frames), job.out)
	return nil
}
