package poller

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/swdlink/internal/channel"
	cfg "github.com/tamzrod/swdlink/internal/config"
	"github.com/tamzrod/swdlink/internal/swd"
)

// SessionOptions maps probe config onto session options.
// trace may be nil.
func SessionOptions(p cfg.ProbeConfig, log zerolog.Logger, trace io.Writer) []swd.Option {
	opts := []swd.Option{
		swd.WithDevice(p.Device),
		swd.WithReadTimeout(time.Duration(p.TimeoutMs) * time.Millisecond),
		swd.WithMaxLine(p.MaxLine),
		swd.WithMaxPending(p.MaxPending),
		swd.WithInitSync(p.InitSyncLines, time.Duration(p.InitTimeoutMs)*time.Millisecond),
		swd.WithResetStyle(swd.ResetStyle(p.ResetStyle)),
		swd.WithWriteOrder(swd.WriteOrder(p.WriteOrder)),
		swd.WithLogger(log),
	}
	if trace != nil {
		opts = append(opts, swd.WithTrace(trace))
	}
	return opts
}

// SerialOpener opens probe devices as raw serial ports.
func SerialOpener(p cfg.ProbeConfig) swd.Opener {
	return func(path string) (channel.Channel, error) {
		return channel.OpenSerial(channel.Config{
			Device:   path,
			BaudRate: p.BaudRate,
		})
	}
}

// Build opens the probe session, runs the startup line sequences and
// wires a Poller to it. Fails fast: no retries at startup.
func Build(ctx context.Context, c *cfg.Config, open swd.Opener, opts ...swd.Option) (*Poller, *swd.Session, error) {
	s := swd.New(open, opts...)

	if err := s.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("probe %s init: %w", c.Probe.ID, err)
	}

	if err := Startup(ctx, s, c.Startup); err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("probe %s startup: %w", c.Probe.ID, err)
	}

	writes := make([]WriteBlock, 0, len(c.Writes))
	for _, w := range c.Writes {
		writes = append(writes, WriteBlock{Cmd: w.Cmd, Value: w.Value, Idle: w.Idle})
	}

	reads := make([]ReadBlock, 0, len(c.Reads))
	for _, r := range c.Reads {
		reads = append(reads, ReadBlock{Name: r.Name, Cmd: r.Cmd, Idle: r.Idle})
	}

	p, err := New(
		Config{
			ProbeID:  c.Probe.ID,
			Interval: time.Duration(c.Poll.IntervalMs) * time.Millisecond,
			Writes:   writes,
			Reads:    reads,
		},
		s,
	)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}

	p.SetReconnect(func(ctx context.Context) error {
		_ = s.Close()
		if err := s.Init(ctx); err != nil {
			return err
		}
		if err := Startup(ctx, s, c.Startup); err != nil {
			_ = s.Close()
			return err
		}
		return nil
	})

	return p, s, nil
}

// Startup emits the configured line sequences and confirms the link with
// one flush.
func Startup(ctx context.Context, s *swd.Session, seqs []string) error {
	for _, name := range seqs {
		if err := s.SwitchSequence(swd.Sequence(name)); err != nil {
			return err
		}
	}
	return s.Flush(ctx)
}
