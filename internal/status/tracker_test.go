package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tamzrod/swdlink/internal/swd"
)

func TestTracker_ErrorThenRecovery(t *testing.T) {
	tr := NewTracker()

	if !tr.Apply(&swd.AckError{Code: 4}, 7) {
		t.Fatalf("error apply should change snapshot")
	}
	s := tr.Snapshot()
	if s.Health != HealthError || s.LastErrorCode != 4 || s.Token != 7 {
		t.Fatalf("snapshot after ack failure: %+v", s)
	}

	tr.Tick()
	tr.Tick()
	if tr.Snapshot().SecondsInError != 2 {
		t.Fatalf("seconds_in_error: got=%d want=2", tr.Snapshot().SecondsInError)
	}

	tr.Apply(nil, 8)
	s = tr.Snapshot()
	if s.Health != HealthOK || s.LastErrorCode != 0 || s.SecondsInError != 0 {
		t.Fatalf("snapshot after recovery: %+v", s)
	}
	if tr.Tick() {
		t.Fatalf("Tick must not advance while OK")
	}
}

func TestTracker_SecondsSaturate(t *testing.T) {
	tr := NewTracker()
	tr.Apply(swd.ErrTimeout, 0)
	tr.snap.SecondsInError = 0xFFFF

	if tr.Tick() {
		t.Fatalf("Tick must not wrap seconds_in_error")
	}
}

func TestTracker_UnchangedSnapshot(t *testing.T) {
	tr := NewTracker()
	tr.Apply(nil, 1)
	if tr.Apply(nil, 1) {
		t.Fatalf("identical outcome should not report a change")
	}
}

func TestErrorCodeAndHealth(t *testing.T) {
	cases := []struct {
		err    error
		code   uint16
		health uint16
	}{
		{fmt.Errorf("%w: sync token 3, want 2", swd.ErrProtocolDesync), CodeDesync, HealthDesync},
		{errors.Join(&swd.AckError{Code: 2}, swd.ErrProtocolDesync), 2, HealthDesync},
		{&swd.AckError{Code: 0x10007}, 7, HealthError},
		{swd.ErrChannelClosed, CodeClosed, HealthDisconnected},
		{swd.ErrQueueFull, CodeQueueFull, HealthError},
		{errors.New("other"), CodeGeneric, HealthError},
	}

	for _, tc := range cases {
		if got := ErrorCode(tc.err); got != tc.code {
			t.Fatalf("ErrorCode(%v): got=0x%x want=0x%x", tc.err, got, tc.code)
		}
		if got := Health(tc.err); got != tc.health {
			t.Fatalf("Health(%v): got=%d want=%d", tc.err, got, tc.health)
		}
	}
}
