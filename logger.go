package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sheetanim/sheetanim/config"
)

// initLogger installs the global logger: human readable output on stderr
// and, when cfg names a log file, JSON lines appended to it. The returned
// file is nil without a log file; closing a nil *os.File is harmless.
func initLogger(cfg *config.Config) (*os.File, error) {
	zerolog.SetGlobalLevel(cfg.Level())
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}

	if cfg.LogFile == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, f)).With().Timestamp().Logger()
	return f, nil
}
