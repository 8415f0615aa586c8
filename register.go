package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sheetanim/sheetanim/config"
)

var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, cfg *config.Config, args []string) error
}

var commands []*command

func commandTable() []*command {
	return []*command{
		{name: "analyze", summary: "analyze every cell of one or more sheets and print statistics", run: runAnalyze},
		{name: "export", summary: "export selected cells of a sheet as an animation file", run: runExport},
		{name: "import-aseprite", summary: "import an Aseprite JSON export and optionally export one tag", run: runImportAseprite},
		{name: "catalog", summary: "list the animation files found in folders", run: runCatalog},
		{name: "info", summary: "print the metadata of animation files", run: runInfo},
		{name: "suggest", summary: "suggest a tile size and alpha threshold for sheets", run: runSuggest},
	}
}

func registerAll() {
	commands = commandTable()
	log.Debug().
		Int("count", len(commands)).
		Msg("All commands registered")
}

func lookup(name string) (*command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}
