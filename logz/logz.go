// Package logz holds the shared console logger. Packages derive their own
// tagged logger from it:
//
//	var log = logz.Logger.With().Str("module", "bench").Logger()
package logz

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger writes human-readable output to stderr.
var Logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.Stamp,
}).With().Timestamp().Logger()
