package poller

import "time"

// ReadBlock describes one register read in a batch.
type ReadBlock struct {
	Name string
	Cmd  uint8
	Idle uint32
}

// WriteBlock describes one register write issued before the reads.
type WriteBlock struct {
	Cmd   uint8
	Value uint32
	Idle  uint32
}

// PollResult is a snapshot produced by one batch.
type PollResult struct {
	ProbeID string
	At      time.Time

	// Token is the sync token the batch was flushed with.
	Token uint32

	// Values holds one entry per ReadBlock, in order.
	Values []uint32
	Err    error // non-nil means the batch failed; Values is nil
}
