package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/chime/pkg/log"
)

// Logger returns the CLI logger writing to stderr at level. An invalid
// level falls back to info with a warning.
func Logger(level string) zerolog.Logger {
	l, err := log.NewConsoleLogger(os.Stderr, level)
	if err != nil {
		l, _ = log.NewConsoleLogger(os.Stderr, "info")
		l.Warn().Err(err).Str("level", level).Msg("invalid log level, using info")
	}
	return l
}
