package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a component-tagged zerolog logger. Level comes from LOG_LEVEL,
// output is console-friendly unless LOG_FORMAT=json.
func New(component string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var l zerolog.Logger
	if os.Getenv("LOG_FORMAT") == "json" {
		l = zerolog.New(os.Stdout)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return l.Level(level).With().
		Timestamp().
		Str("component", component).
		Logger()
}
