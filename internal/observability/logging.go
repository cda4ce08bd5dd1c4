package observability

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a structured JSON logger. The CLI passes stderr; stdout is
// reserved for the account report.
func NewLogger(w io.Writer, component, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLogLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ParseLogLevel maps a level name to a zerolog level. Empty or unknown names
// fall back to warn, the CLI default.
func ParseLogLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
