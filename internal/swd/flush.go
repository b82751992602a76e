package swd

import (
	"context"
	"errors"
	"fmt"
)

// Flush sends the sync token, collects one response per queued read in
// FIFO order and validates the echoed token. Destinations are written only
// once the sync echo matches.
//
// Whatever happens, the token advances by one, the queue is emptied and the
// latch is cleared for the next batch. A latched error takes precedence over
// a sync failure; when both occur they are joined.
//
// After an "error ack" reply, up to one line per remaining queued read is
// discarded while waiting for the sync echo. Destinations of those reads
// are left untouched.
//
// A sync failure (timeout, overflow, bad line, wrong token) may leave the
// peer's late output in the channel. The next Flush then skips everything
// up to the last stale sync echo before reading its own replies.
func (s *Session) Flush(ctx context.Context) error {
	token := s.token
	pending := s.queue.len()

	var syncErr error
	if s.codec == nil {
		s.fail(ErrNotOpen)
	} else {
		syncErr = s.collect(ctx, token)
		s.dirty = syncErr != nil
	}

	latched := s.latch

	s.token++
	s.queue.reset()
	s.latch = nil

	err := outcome(latched, syncErr)

	if err != nil {
		s.log.Warn().Err(err).Uint32("token", token).Int("reads", pending).Msg("flush failed")
	} else {
		s.log.Debug().Uint32("token", token).Int("reads", pending).Msg("flush")
	}

	return err
}

func (s *Session) collect(ctx context.Context, token uint32) error {
	if err := s.codec.writeLine(syncCmd(token)); err != nil {
		return err
	}

	next := func() (string, error) { return s.readLine(ctx) }
	if s.dirty {
		lines, err := s.resync(ctx, token)
		if err != nil {
			return err
		}
		next = replay(lines)
	}

	values, ack, err := s.replies(next, token)
	if ack != nil {
		s.fail(ack)
	}
	if err != nil {
		return err
	}

	for i, v := range values {
		*s.queue.at(i).dst = v
	}
	return nil
}

// replies interprets one batch of reply lines, ending with the sync echo.
func (s *Session) replies(next func() (string, error), token uint32) ([]uint32, *AckError, error) {
	n := s.queue.len()
	values := make([]uint32, 0, n)

	var ack *AckError
	discard := 0

	for {
		line, err := next()
		if err != nil {
			return nil, ack, err
		}

		if got, ok := parseSync(line); ok {
			if got != token {
				return nil, ack, fmt.Errorf("%w: sync token %x, want %x", ErrProtocolDesync, got, token)
			}
			if ack == nil && len(values) < n {
				return nil, ack, fmt.Errorf("%w: sync after %d of %d replies", ErrProtocolDesync, len(values), n)
			}
			return values, ack, nil
		}

		switch {
		case ack == nil && len(values) < n:
			if code, ok := parseAck(line); ok {
				ack = &AckError{Code: code}
				discard = n - len(values) - 1
				continue
			}
			v, err := parseValue(line)
			if err != nil {
				return nil, ack, err
			}
			values = append(values, v)
		case discard > 0:
			discard--
			s.log.Debug().Str("line", line).Msg("discarding reply after ack failure")
		default:
			return nil, ack, fmt.Errorf("%w: want sync %x, got %q", ErrProtocolDesync, token, line)
		}
	}
}

// resync buffers reply lines up to the sync echo for token. Lines ending in
// an older sync echo belong to an abandoned batch and are dropped. At most
// the queued read count plus InitSyncLines lines are read.
func (s *Session) resync(ctx context.Context, token uint32) ([]string, error) {
	budget := s.queue.len() + s.cfg.InitSyncLines
	var lines []string

	for read := 0; read <= budget; read++ {
		line, err := s.readLine(ctx)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)

		got, ok := parseSync(line)
		if !ok {
			continue
		}
		if got == token {
			return lines, nil
		}
		s.log.Debug().
			Uint32("stale", got).
			Int("lines", len(lines)).
			Msg("discarding abandoned batch output")
		lines = lines[:0]
	}

	return nil, fmt.Errorf("%w: no sync %x within %d lines", ErrProtocolDesync, token, budget)
}

func replay(lines []string) func() (string, error) {
	return func() (string, error) {
		if len(lines) == 0 {
			return "", fmt.Errorf("%w: reply lines exhausted", ErrProtocolDesync)
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()
	return s.codec.readLine(ctx, s.cfg.MaxLine)
}

func outcome(latched, syncErr error) error {
	switch {
	case latched != nil && syncErr != nil:
		return errors.Join(latched, syncErr)
	case latched != nil:
		return latched
	default:
		return syncErr
	}
}
