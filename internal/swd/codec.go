package swd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tamzrod/swdlink/internal/channel"
)

// diagMarker prefixes firmware status lines. They never carry payload.
const diagMarker = '#'

// DiagnosticSink receives firmware diagnostic lines verbatim.
type DiagnosticSink func(line string)

// lineCodec frames commands as newline-terminated text and splits the
// incoming byte stream into lines.
type lineCodec struct {
	ch    channel.Channel
	diag  DiagnosticSink
	trace io.Writer // optional mirror of wire traffic
	line  []byte
}

func newLineCodec(ch channel.Channel, diag DiagnosticSink, trace io.Writer) *lineCodec {
	return &lineCodec{ch: ch, diag: diag, trace: trace}
}

// writeLine transmits text plus terminator as a single buffer.
func (c *lineCodec) writeLine(text string) error {
	buf := make([]byte, 0, len(text)+1)
	buf = append(buf, text...)
	buf = append(buf, '\n')

	if err := channel.WriteAll(c.ch, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: write %q: %v", ErrChannelClosed, text, err)
		}
		return fmt.Errorf("swd: write %q: %w", text, err)
	}

	if c.trace != nil {
		fmt.Fprintf(c.trace, "> %s\n", text)
	}
	return nil
}

// readLine returns the next non-diagnostic line without its terminator.
// A line longer than maxLen fails with ErrBufferOverflow.
func (c *lineCodec) readLine(ctx context.Context, maxLen int) (string, error) {
	for {
		line, err := c.readRaw(ctx, maxLen)
		if err != nil {
			return "", err
		}
		if len(line) > 0 && line[0] == diagMarker {
			if c.trace != nil {
				fmt.Fprintf(c.trace, "%s\n", line)
			}
			if c.diag != nil {
				c.diag(line)
			}
			continue
		}
		if c.trace != nil {
			fmt.Fprintf(c.trace, "< %s\n", line)
		}
		return line, nil
	}
}

func (c *lineCodec) readRaw(ctx context.Context, maxLen int) (string, error) {
	c.line = c.line[:0]
	for {
		b, err := c.ch.ReadByte()
		if err != nil {
			if errors.Is(err, channel.ErrIdle) {
				if cerr := ctx.Err(); cerr != nil {
					return "", fmt.Errorf("%w: %v", ErrTimeout, cerr)
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return "", ErrChannelClosed
			}
			return "", fmt.Errorf("swd: read: %w", err)
		}

		switch b {
		case '\n':
			return string(c.line), nil
		case '\r':
			continue
		}

		if len(c.line) >= maxLen {
			c.discardLine(ctx)
			return "", fmt.Errorf("%w (limit %d)", ErrBufferOverflow, maxLen)
		}
		c.line = append(c.line, b)
	}
}

// discardLine consumes the rest of an oversized line so the next read
// starts on a line boundary. Errors are left for the next read to report.
func (c *lineCodec) discardLine(ctx context.Context) {
	for {
		b, err := c.ch.ReadByte()
		if err != nil {
			if errors.Is(err, channel.ErrIdle) && ctx.Err() == nil {
				continue
			}
			return
		}
		if b == '\n' {
			return
		}
	}
}
