package channel

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/goburrow/serial"
)

// Config is minimal serial transport config.
type Config struct {
	Device   string
	BaudRate int

	// PollInterval bounds a single blocking read. Expiry surfaces as ErrIdle.
	PollInterval time.Duration
}

// SerialChannel is a raw-mode serial port with a small read-ahead buffer.
type SerialChannel struct {
	port serial.Port
	buf  [256]byte
	r, w int
}

// OpenSerial opens the device in raw, non-canonical, 8N1 mode.
func OpenSerial(cfg Config) (*SerialChannel, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("%w: device path required", ErrOpen)
	}
	if _, err := os.Stat(cfg.Device); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, cfg.Device, err)
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 115200
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.PollInterval,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s: %v", ErrOpen, cfg.Device, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, cfg.Device, err)
	}

	return &SerialChannel{port: port}, nil
}

func (c *SerialChannel) Write(p []byte) (int, error) {
	return c.port.Write(p)
}

func (c *SerialChannel) ReadByte() (byte, error) {
	if c.r == c.w {
		n, err := c.port.Read(c.buf[:])
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				return 0, ErrIdle
			}
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		c.r, c.w = 0, n
	}
	b := c.buf[c.r]
	c.r++
	return b, nil
}

func (c *SerialChannel) Close() error {
	if c == nil || c.port == nil {
		return nil
	}
	return c.port.Close()
}
