package status

import (
	"errors"

	"github.com/tamzrod/swdlink/internal/swd"
)

// Error codes reported in SlotLastErrorCode for failures that carry no
// peer code. Peer ack codes are passed through verbatim.
const (
	CodeGeneric     uint16 = 0x0001
	CodeDesync      uint16 = 0x0100
	CodeTimeout     uint16 = 0x0101
	CodeClosed      uint16 = 0x0102
	CodeOverflow    uint16 = 0x0103
	CodeQueueFull   uint16 = 0x0104
	CodeChannelOpen uint16 = 0x0105
)

// Tracker owns the status snapshot of one probe.
// It is runner-owned state: not safe for concurrent use.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in the unknown (boot) state.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Apply folds one batch outcome into the snapshot.
// It reports whether any slot changed.
func (t *Tracker) Apply(err error, token uint32) bool {
	next := t.snap
	next.Token = uint16(token)

	if err == nil {
		// Recovery / OK: error code and seconds-in-error reset.
		next.Health = HealthOK
		next.LastErrorCode = 0
		next.SecondsInError = 0
	} else {
		// seconds_in_error increments on Tick only.
		next.Health = Health(err)
		next.LastErrorCode = ErrorCode(err)
	}

	changed := next != t.snap
	t.snap = next
	return changed
}

// Tick advances seconds-in-error while not OK. It never wraps.
func (t *Tracker) Tick() bool {
	if t.snap.Health == HealthOK || t.snap.SecondsInError == 0xFFFF {
		return false
	}
	t.snap.SecondsInError++
	return true
}

// Health classifies a batch error.
func Health(err error) uint16 {
	switch {
	case err == nil:
		return HealthOK
	case errors.Is(err, swd.ErrProtocolDesync), errors.Is(err, swd.ErrBufferOverflow):
		return HealthDesync
	case errors.Is(err, swd.ErrChannelClosed), errors.Is(err, swd.ErrNotOpen),
		errors.Is(err, swd.ErrChannelOpen), errors.Is(err, swd.ErrChannelConfig):
		return HealthDisconnected
	default:
		return HealthError
	}
}

// ErrorCode extracts a best-effort uint16 code from an error.
// Peer ack codes win; otherwise the error kind selects a fixed code.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type acker interface{ AckCode() uint16 }
	var a acker
	if errors.As(err, &a) {
		return a.AckCode()
	}

	switch {
	case errors.Is(err, swd.ErrProtocolDesync):
		return CodeDesync
	case errors.Is(err, swd.ErrTimeout):
		return CodeTimeout
	case errors.Is(err, swd.ErrChannelClosed), errors.Is(err, swd.ErrNotOpen):
		return CodeClosed
	case errors.Is(err, swd.ErrBufferOverflow):
		return CodeOverflow
	case errors.Is(err, swd.ErrQueueFull):
		return CodeQueueFull
	case errors.Is(err, swd.ErrChannelOpen), errors.Is(err, swd.ErrChannelConfig):
		return CodeChannelOpen
	}
	return CodeGeneric
}
