package animfile

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func fileLog() *zerolog.Logger {
	l := log.With().Str("module", "animfile").Logger()
	return &l
}
