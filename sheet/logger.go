package sheet

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sheetLog returns the sheet sub-logger, tagged with module=sheet.
func sheetLog() *zerolog.Logger {
	l := log.With().Str("module", "sheet").Logger()
	return &l
}
