package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "SWDLINK_LOG_LEVEL"
	EnvLogNoColor = "SWDLINK_LOG_NOCOLOR"
)

// New builds the process logger on stderr. Level and color come from
// the environment; unknown values fall back to info with color.
func New(app string) zerolog.Logger {
	return NewWithLookup(app, os.Stderr, os.LookupEnv)
}

// NewWithLookup is New with an explicit sink and environment.
func NewWithLookup(app string, out io.Writer, lookup func(string) (string, bool)) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw, ok := lookup(EnvLogLevel); ok {
		if lvl, ok := ParseLevel(raw); ok {
			level = lvl
		}
	}

	noColor := false
	if raw, ok := lookup(EnvLogNoColor); ok {
		noColor = strings.TrimSpace(raw) != "" && raw != "0" && !strings.EqualFold(raw, "false")
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
}

// ParseLevel accepts the usual level names plus "off".
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

// OpenDiagLog opens the optional diagnostic log. An empty path disables
// it and returns a nil writer with a no-op closer.
func OpenDiagLog(path string) (io.Writer, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("diag log open failed (%s): %w", path, err)
	}
	return f, f.Close, nil
}
