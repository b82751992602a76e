package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/swdlink/internal/poller"
)

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type modbusWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

func New(plan Plan, clients map[string]endpointClient) Writer {
	return &modbusWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write delivers the values of a successful batch to every target.
// Failed batches deliver nothing; status is the status writer's job.
func (w *modbusWriter) Write(res poller.PollResult) error {
	if res.Err != nil || len(res.Values) == 0 {
		return nil
	}

	regs := valueRegs(res.Values)
	var errs []string

	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		if err := cli.WriteRegisters(tgt.UnitID, tgt.Address, regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d addr=%d err=%v",
				tgt.Endpoint, tgt.UnitID, tgt.Address, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

// valueRegs splits each 32-bit value into (high, low) registers.
func valueRegs(values []uint32) []uint16 {
	regs := make([]uint16, 0, len(values)*2)
	for _, v := range values {
		regs = append(regs, uint16(v>>16), uint16(v))
	}
	return regs
}
