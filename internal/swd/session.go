package swd

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/swdlink/internal/channel"
)

// Opener opens the byte channel for a device path.
type Opener func(path string) (channel.Channel, error)

// State is the batch state of a session.
type State int

const (
	// StateIdle means no reads are pending.
	StateIdle State = iota
	// StateQueuing means one or more reads await the next Flush.
	StateQueuing
)

func (st State) String() string {
	if st == StateQueuing {
		return "queuing"
	}
	return "idle"
}

// Session drives one probe over one channel.
//
// Register operations emit wire traffic immediately and never block on a
// response. Reads are collected by Flush. Transport failures during a batch
// are latched and returned by the next Flush; once latched, every further
// wire-emitting call in the batch is suppressed.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg  Config
	open Opener
	id   string
	log  zerolog.Logger

	ch    channel.Channel
	codec *lineCodec

	queue readQueue
	token uint32
	latch error
	dirty bool // last flush may have left replies unread
}

// New creates a session. The channel is opened by Init.
func New(open Opener, opts ...Option) *Session {
	if open == nil {
		panic("swd: opener cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.NewString()
	s := &Session{
		cfg:   cfg,
		open:  open,
		id:    id,
		log:   cfg.Logger.With().Str("session", id).Logger(),
		queue: newReadQueue(cfg.MaxPending),
	}
	if s.cfg.Diagnostic == nil {
		s.cfg.Diagnostic = func(line string) {
			s.log.Info().Str("diag", line).Msg("probe")
		}
	}
	return s
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() string { return s.id }

// Token returns the sync token the next Flush will send.
func (s *Session) Token() uint32 { return s.token }

// Pending returns the number of queued reads.
func (s *Session) Pending() int { return s.queue.len() }

// State reports Idle or Queuing.
func (s *Session) State() State {
	if s.queue.len() > 0 {
		return StateQueuing
	}
	return StateIdle
}

// Err returns the error latched in the current batch, if any.
func (s *Session) Err() error { return s.latch }

// Init opens the channel, configures the peer and discards stale output
// until the startup sync reply arrives. It is a no-op once the session is
// open. On failure the channel is closed and Init may be called again.
func (s *Session) Init(ctx context.Context) error {
	if s.codec != nil {
		return nil
	}

	ch, err := s.open(s.cfg.Device)
	if err != nil {
		return classifyOpen(err)
	}

	s.ch = ch
	s.codec = newLineCodec(ch, s.cfg.Diagnostic, s.cfg.Trace)

	if err := s.handshake(ctx); err != nil {
		_ = s.Close()
		return err
	}

	s.log.Info().
		Str("device", s.cfg.Device).
		Uint32("token", s.token).
		Msg("probe session ready")
	return nil
}

func (s *Session) handshake(ctx context.Context) error {
	for _, cmd := range []string{cmdDiscard, cmdNoEcho, cmdHex} {
		if err := s.codec.writeLine(cmd); err != nil {
			return err
		}
	}

	token := s.token
	if err := s.codec.writeLine(syncCmd(token)); err != nil {
		return err
	}
	s.token++

	ctx, cancel := context.WithTimeout(ctx, s.cfg.InitTimeout)
	defer cancel()

	for n := 0; n <= s.cfg.InitSyncLines; n++ {
		line, err := s.codec.readLine(ctx, s.cfg.MaxLine)
		switch {
		case errors.Is(err, ErrBufferOverflow):
			// boot banners may exceed the protocol line limit
			continue
		case errors.Is(err, ErrTimeout):
			return fmt.Errorf("%w: %w: %v", ErrProtocolDesync, ErrInitSync, err)
		case err != nil:
			return err
		}

		if got, ok := parseSync(line); ok && got == token {
			return nil
		}
		s.log.Debug().Str("line", line).Msg("discarding stale line")
	}

	return fmt.Errorf("%w: %w: budget of %d lines exhausted",
		ErrProtocolDesync, ErrInitSync, s.cfg.InitSyncLines)
}

func classifyOpen(err error) error {
	switch {
	case errors.Is(err, channel.ErrConfig):
		return fmt.Errorf("%w: %w", ErrChannelConfig, err)
	default:
		return fmt.Errorf("%w: %w", ErrChannelOpen, err)
	}
}

// Close releases the channel. Pending reads are dropped.
func (s *Session) Close() error {
	s.queue.reset()
	s.latch = nil
	s.dirty = false
	s.codec = nil
	if s.ch == nil {
		return nil
	}
	ch := s.ch
	s.ch = nil
	return ch.Close()
}

// SwitchSequence emits one SWD line-sequence control command.
func (s *Session) SwitchSequence(seq Sequence) error {
	if !seq.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedSequence, string(seq))
	}
	s.emit(string(seq))
	return nil
}

// SetResetLines drives the reset lines. The peer does not acknowledge it.
func (s *Session) SetResetLines(trst, srst bool) {
	s.emit(resetCmd(s.cfg.ResetStyle, trst, srst))
}

// ReadRegister issues a read of cmd. With a non-nil dst the value is
// reported and stored into dst by the next Flush; with a nil dst the peer
// performs the read and discards the value. idle > 0 appends idle clocks.
func (s *Session) ReadRegister(cmd uint8, dst *uint32, idle uint32) {
	if !s.ready() {
		return
	}

	if dst == nil {
		if !s.emit(readDropCmd(cmd)) {
			return
		}
	} else {
		if s.queue.len() >= s.queue.max {
			s.fail(fmt.Errorf("%w (max %d)", ErrQueueFull, s.queue.max))
			return
		}
		if !s.emit(readReportCmd(cmd)) {
			return
		}
		if err := s.queue.push(cmd, dst); err != nil {
			s.fail(err)
			return
		}
	}

	if idle > 0 {
		s.emit(idleCmd(idle))
	}
}

// WriteRegister writes value into cmd. Writes produce no response line.
func (s *Session) WriteRegister(cmd uint8, value uint32, idle uint32) {
	if !s.emit(writeCmd(s.cfg.WriteOrder, cmd, value)) {
		return
	}
	if idle > 0 {
		s.emit(idleCmd(idle))
	}
}

// ready reports whether wire traffic may be emitted in this batch.
func (s *Session) ready() bool {
	if s.latch != nil {
		return false
	}
	if s.codec == nil {
		s.fail(ErrNotOpen)
		return false
	}
	return true
}

// emit writes one command line unless the batch is latched.
func (s *Session) emit(line string) bool {
	if !s.ready() {
		return false
	}
	if err := s.codec.writeLine(line); err != nil {
		s.fail(err)
		return false
	}
	return true
}

// fail latches the first error of the batch.
func (s *Session) fail(err error) {
	if s.latch != nil {
		return
	}
	s.latch = err
	s.log.Debug().Err(err).Uint32("token", s.token).Msg("batch error latched")
}
