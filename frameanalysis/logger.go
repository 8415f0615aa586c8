package frameanalysis

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// anaLog 返回 frameanalysis 模块的子日志器，自动携带 module=frameanalysis 字段。
//
// anaLog returns the frameanalysis sub-logger, tagged with module=frameanalysis.
// It is derived from the global logger on every call so that a logger
// installed by the host after package init is honoured.
func anaLog() *zerolog.Logger {
	l := log.With().Str("module", "frameanalysis").Logger()
	return &l
}
