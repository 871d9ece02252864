// Package logging configures the process-wide zerolog base logger and
// hands out component-scoped child loggers.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/config"
)

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the base logger exactly once. Level precedence:
// cfg.LogLevel, then LOG_LEVEL, then debug when Verbose, then info.
// Output is a human-readable console writer when stderr is a terminal
// (and NO_COLOR is unset), JSON lines otherwise.
func Configure(cfg *config.Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Verbose {
			level = zerolog.DebugLevel
		}
		for _, s := range []string{os.Getenv("LOG_LEVEL"), cfg.LogLevel} {
			if s == "" {
				continue
			}
			if parsed, err := zerolog.ParseLevel(s); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		var writer io.Writer = os.Stderr
		if isTerminal(os.Stderr) && os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb" {
			writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		}

		base = zerolog.New(writer).With().Timestamp().Logger()
	})
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	return base
}

// WithComponent returns a child logger annotated with a component name.
func WithComponent(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
