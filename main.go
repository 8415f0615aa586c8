package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/sheetanim/sheetanim/config"
)

func main() {
	configPath := flag.String("config", "", "path to "+config.FileName+" (default: $"+config.EnvPath+", next to the binary, or the working directory)")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logFile, err := initLogger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().Str("version", Version).Str("config", cfg.Path).Msg("sheetanim")

	if flag.NArg() < 1 {
		usage()
		logFile.Close()
		os.Exit(2)
	}

	registerAll()
	cmd, ok := lookup(flag.Arg(0))
	if !ok {
		log.Error().Str("command", flag.Arg(0)).Msg("Unknown command")
		usage()
		logFile.Close()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = cmd.run(ctx, cfg, flag.Args()[1:])
	stop()

	code := 0
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		log.Error().Err(err).Str("command", cmd.name).Msg("Bad arguments")
		code = 2
	default:
		log.Error().Err(err).Str("command", cmd.name).Msg("Command failed")
		code = 1
	}
	logFile.Close()
	os.Exit(code)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: sheetanim [flags] <command> [args]\n\nCommands:\n")
	for _, c := range commandTable() {
		fmt.Fprintf(out, "  %-16s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}
