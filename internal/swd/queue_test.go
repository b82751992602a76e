package swd

import (
	"errors"
	"testing"
)

func TestQueueFIFOAndBound(t *testing.T) {
	q := newReadQueue(2)
	var a, b uint32

	if err := q.push(1, &a); err != nil {
		t.Fatalf("push err=%v", err)
	}
	if err := q.push(2, &b); err != nil {
		t.Fatalf("push err=%v", err)
	}
	if err := q.push(3, &b); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full, got %v", err)
	}
	if q.at(0).dst != &a || q.at(1).cmd != 2 {
		t.Fatalf("queue order broken")
	}

	q.reset()
	if q.len() != 0 {
		t.Fatalf("reset left %d entries", q.len())
	}
	if err := q.push(4, &a); err != nil {
		t.Fatalf("push after reset err=%v", err)
	}
}

func TestQueueDefaultCapacity(t *testing.T) {
	q := newReadQueue(0)
	if q.max != DefaultMaxPending {
		t.Fatalf("max: got=%d want=%d", q.max, DefaultMaxPending)
	}
}
