package aseprite

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// aseLog returns the aseprite sub-logger, tagged with module=aseprite.
func aseLog() *zerolog.Logger {
	l := log.With().Str("module", "aseprite").Logger()
	return &l
}
