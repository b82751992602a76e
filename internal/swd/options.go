package swd

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ResetStyle selects the wire encoding used by SetResetLines.
type ResetStyle string

const (
	// ResetSRST emits "<srst> srst".
	ResetSRST ResetStyle = "srst"
	// ResetTRSTSRST emits "<trst> <srst> trst/srst".
	ResetTRSTSRST ResetStyle = "trst_srst"
)

// WriteOrder selects the field order of the register write command.
type WriteOrder string

const (
	// WriteValueFirst emits "<value> <cmd> wr".
	WriteValueFirst WriteOrder = "value_cmd"
	// WriteCmdFirst emits "<cmd> <value> wr".
	WriteCmdFirst WriteOrder = "cmd_value"
)

// Config holds the session configuration.
type Config struct {
	// Device is handed to the Opener on Init.
	Device string

	// ReadTimeout bounds each response line read.
	ReadTimeout time.Duration

	// MaxLine is the longest accepted response line, terminator excluded.
	MaxLine int

	// MaxPending bounds the read queue between flushes.
	MaxPending int

	// InitSyncLines bounds how many stale lines Init may discard
	// before the startup sync reply must appear.
	InitSyncLines int

	// InitTimeout bounds the whole startup sync.
	InitTimeout time.Duration

	ResetStyle ResetStyle

	WriteOrder WriteOrder

	Logger zerolog.Logger

	// Diagnostic receives firmware "#" lines. Defaults to Logger at info level.
	Diagnostic DiagnosticSink

	// Trace mirrors every outgoing and incoming line (optional).
	Trace io.Writer
}

func defaultConfig() Config {
	return Config{
		ReadTimeout:   time.Second,
		MaxLine:       64,
		MaxPending:    DefaultMaxPending,
		InitSyncLines: 64,
		InitTimeout:   3 * time.Second,
		ResetStyle:    ResetSRST,
		WriteOrder:    WriteValueFirst,
		Logger:        zerolog.Nop(),
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithDevice sets the device path passed to the opener.
func WithDevice(path string) Option {
	return func(c *Config) {
		c.Device = path
	}
}

// WithReadTimeout sets the per-line read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.ReadTimeout = d
		}
	}
}

// WithMaxLine sets the response line buffer limit.
func WithMaxLine(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxLine = n
		}
	}
}

// WithMaxPending sets the read queue capacity.
func WithMaxPending(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxPending = n
		}
	}
}

// WithInitSync sets the startup discard budget.
//
// Example:
//
//	s := swd.New(open, swd.WithInitSync(128, 5*time.Second))
func WithInitSync(lines int, timeout time.Duration) Option {
	return func(c *Config) {
		if lines > 0 {
			c.InitSyncLines = lines
		}
		if timeout > 0 {
			c.InitTimeout = timeout
		}
	}
}

// WithResetStyle selects the reset line encoding.
func WithResetStyle(style ResetStyle) Option {
	return func(c *Config) {
		c.ResetStyle = style
	}
}

// WithWriteOrder selects the write command field order.
func WithWriteOrder(order WriteOrder) Option {
	return func(c *Config) {
		c.WriteOrder = order
	}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithDiagnosticSink routes firmware diagnostic lines to sink.
func WithDiagnosticSink(sink DiagnosticSink) Option {
	return func(c *Config) {
		c.Diagnostic = sink
	}
}

// WithTrace mirrors raw wire traffic to w.
func WithTrace(w io.Writer) Option {
	return func(c *Config) {
		c.Trace = w
	}
}
