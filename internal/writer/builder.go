package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/swdlink/internal/config"
	wmodbus "github.com/tamzrod/swdlink/internal/writer/modbus"
)

// BuildPlan converts the config into a Writer Plan.
// Assumes config has already passed Validate.
func BuildPlan(c *cfg.Config) (Plan, error) {
	if c.Probe.ID == "" {
		return Plan{}, errors.New("writer: probe.id required")
	}

	plan := Plan{ProbeID: c.Probe.ID}

	for _, t := range c.Targets {
		plan.Targets = append(plan.Targets, TargetEndpoint{
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
		})
	}

	if st := c.Status; st != nil {
		plan.Status = &StatusPlan{
			Endpoint:   st.Endpoint,
			UnitID:     st.UnitID,
			BaseSlot:   st.Slot,
			DeviceName: st.DeviceName,
		}
	}

	return plan, nil
}

// BuildEndpointClients creates one TCP client per unique endpoint,
// status endpoint included.
func BuildEndpointClients(c *cfg.Config) (map[string]endpointClient, func() error, error) {
	timeouts := map[string]time.Duration{}
	for _, t := range c.Targets {
		timeouts[t.Endpoint] = time.Duration(t.TimeoutMs) * time.Millisecond
	}
	if c.Status != nil {
		if _, ok := timeouts[c.Status.Endpoint]; !ok {
			timeouts[c.Status.Endpoint] = time.Second
		}
	}

	clients := make(map[string]endpointClient)
	var closers []func() error

	for endpoint, timeout := range timeouts {
		ec, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			for _, fn := range closers {
				_ = fn()
			}
			return nil, nil, err
		}
		clients[endpoint] = ec
		closers = append(closers, ec.Close)
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return clients, closeAll, nil
}
