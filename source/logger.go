package source

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func srcLog() *zerolog.Logger {
	l := log.With().Str("module", "source").Logger()
	return &l
}
