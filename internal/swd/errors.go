package swd

import (
	"errors"
	"fmt"
)

var (
	ErrChannelOpen         = errors.New("swd: channel open failed")
	ErrChannelConfig       = errors.New("swd: channel raw mode setup failed")
	ErrChannelClosed       = errors.New("swd: channel closed")
	ErrBufferOverflow      = errors.New("swd: response line exceeds buffer")
	ErrUnsupportedSequence = errors.New("swd: unsupported line sequence")
	ErrProtocolDesync      = errors.New("swd: protocol desync")
	ErrTimeout             = errors.New("swd: read timed out")
	ErrQueueFull           = errors.New("swd: pending read queue full")
	ErrNotOpen             = errors.New("swd: session not initialized")

	// ErrInitSync is wrapped together with ErrProtocolDesync when the
	// startup discard loop runs out of budget.
	ErrInitSync = errors.New("swd: no sync reply during init")
)

// AckError is a peer-reported acknowledgement failure for a register access.
type AckError struct {
	Code uint32
}

func (e *AckError) Error() string {
	return fmt.Sprintf("swd: register ack failure (code=0x%x)", e.Code)
}

// AckCode returns the peer code truncated to 16 bits for status export.
func (e *AckError) AckCode() uint16 {
	return uint16(e.Code)
}
