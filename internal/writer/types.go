package writer

import "github.com/tamzrod/swdlink/internal/poller"

// TargetEndpoint is one Modbus TCP endpoint receiving read values.
// Value i lands at Address+2*i as (high word, low word).
type TargetEndpoint struct {
	Endpoint string
	UnitID   uint8
	Address  uint16
}

// StatusPlan places the probe status block in Modbus memory.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one probe.
type Plan struct {
	ProbeID string
	Targets []TargetEndpoint
	Status  *StatusPlan // nil => status disabled
}

// Writer writes poll snapshots into targets.
type Writer interface {
	Write(res poller.PollResult) error
}
