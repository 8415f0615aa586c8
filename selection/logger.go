package selection

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func selLog() *zerolog.Logger {
	l := log.With().Str("module", "selection").Logger()
	return &l
}
