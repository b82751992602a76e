package swd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/tamzrod/swdlink/internal/channel"
)

// ---- fake peer channel ----

type fakeChannel struct {
	out      bytes.Buffer
	in       []byte
	idle     bool // report ErrIdle instead of EOF once input is drained
	writeErr error
	closed   bool
}

func (f *fakeChannel) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.out.Write(p)
}

func (f *fakeChannel) ReadByte() (byte, error) {
	if len(f.in) == 0 {
		if f.idle {
			return 0, channel.ErrIdle
		}
		return 0, io.EOF
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func (f *fakeChannel) reply(lines ...string) {
	for _, l := range lines {
		f.in = append(f.in, l...)
		f.in = append(f.in, '\n')
	}
}

func (f *fakeChannel) lines() []string {
	s := f.out.String()
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// newTestSession returns an open session bound to ch, skipping the
// startup handshake so the token starts at zero.
func newTestSession(t *testing.T, ch *fakeChannel, opts ...Option) *Session {
	t.Helper()
	s := New(func(string) (channel.Channel, error) { return ch, nil }, opts...)
	s.ch = ch
	s.codec = newLineCodec(ch, s.cfg.Diagnostic, s.cfg.Trace)
	return s
}

func assertLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("wire lines: got=%q want=%q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wire line %d: got=%q want=%q", i, got[i], want[i])
		}
	}
}
