package catalog

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// catLog 返回 catalog 模块的子日志器。
func catLog() *zerolog.Logger {
	l := log.With().Str("module", "catalog").Logger()
	return &l
}
