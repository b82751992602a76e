package channel

import (
	"errors"
	"io"
)

var (
	// ErrIdle means no byte arrived within the channel poll interval.
	// Callers decide whether to keep waiting.
	ErrIdle = errors.New("channel: idle")

	// ErrOpen is returned when the device path cannot be opened.
	ErrOpen = errors.New("channel: open failed")

	// ErrConfig is returned when the device opened but raw mode setup failed.
	ErrConfig = errors.New("channel: raw mode setup failed")
)

// Channel is the byte stream the probe engine owns for its lifetime.
//
// ReadByte returns ErrIdle on poll expiry and io.EOF on end-of-stream.
type Channel interface {
	io.Writer
	ReadByte() (byte, error)
	Close() error
}

// WriteAll writes b in full, looping over short writes.
func WriteAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}
