package swd

// DefaultMaxPending bounds the number of reads queued between flushes.
const DefaultMaxPending = 1024

// pendingRead is one queued read awaiting its response line.
type pendingRead struct {
	cmd uint8
	dst *uint32
}

// readQueue is a FIFO of pending reads. It grows on demand up to max
// entries and keeps its backing array across batches.
type readQueue struct {
	items []pendingRead
	max   int
}

func newReadQueue(max int) readQueue {
	if max <= 0 {
		max = DefaultMaxPending
	}
	return readQueue{max: max}
}

// push appends at the tail. It fails with ErrQueueFull at capacity.
func (q *readQueue) push(cmd uint8, dst *uint32) error {
	if len(q.items) >= q.max {
		return ErrQueueFull
	}
	q.items = append(q.items, pendingRead{cmd: cmd, dst: dst})
	return nil
}

func (q *readQueue) len() int { return len(q.items) }

func (q *readQueue) at(i int) pendingRead { return q.items[i] }

// reset drops every entry, clearing destinations so the old batch's
// pointers are not retained.
func (q *readQueue) reset() {
	for i := range q.items {
		q.items[i] = pendingRead{}
	}
	q.items = q.items[:0]
}
