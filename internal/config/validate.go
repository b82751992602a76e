package config

import (
	"fmt"

	"github.com/tamzrod/swdlink/internal/status"
)

// maxWriteRegisters is the FC16 (write multiple registers) quantity limit.
const maxWriteRegisters = 123

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	p := cfg.Probe

	// ------------------------------------------------------------
	// PROBE
	// ------------------------------------------------------------

	switch p.ResetStyle {
	case "", "srst", "trst_srst":
	default:
		return fmt.Errorf("probe: reset_style %q must be srst or trst_srst", p.ResetStyle)
	}

	switch p.WriteOrder {
	case "", "value_cmd", "cmd_value":
	default:
		return fmt.Errorf("probe: write_order %q must be value_cmd or cmd_value", p.WriteOrder)
	}

	for _, v := range []struct {
		name string
		val  int
	}{
		{"baud_rate", p.BaudRate},
		{"timeout_ms", p.TimeoutMs},
		{"max_line", p.MaxLine},
		{"max_pending", p.MaxPending},
		{"init_sync_lines", p.InitSyncLines},
		{"init_timeout_ms", p.InitTimeoutMs},
	} {
		if v.val < 0 {
			return fmt.Errorf("probe: %s must be >= 0, got %d", v.name, v.val)
		}
	}

	for _, s := range cfg.Startup {
		switch s {
		case "line_reset", "jtag_to_swd", "swd_to_jtag":
		default:
			return fmt.Errorf("startup: unsupported sequence %q", s)
		}
	}

	// ------------------------------------------------------------
	// BATCH
	// ------------------------------------------------------------

	if len(cfg.Reads) == 0 {
		return fmt.Errorf("reads: at least one read is required")
	}
	if p.MaxPending > 0 && len(cfg.Reads) > p.MaxPending {
		return fmt.Errorf("reads: %d reads exceed max_pending %d", len(cfg.Reads), p.MaxPending)
	}
	if cfg.Poll.IntervalMs <= 0 {
		return fmt.Errorf("poll: interval_ms must be > 0")
	}

	names := make(map[string]struct{})
	for i, r := range cfg.Reads {
		if r.Name == "" {
			continue
		}
		if _, dup := names[r.Name]; dup {
			return fmt.Errorf("reads[%d]: duplicate name %q", i, r.Name)
		}
		names[r.Name] = struct{}{}
	}

	// ------------------------------------------------------------
	// TARGET GEOMETRY
	// ------------------------------------------------------------

	type span struct {
		start, end uint32
		idx        int
	}

	// key = endpoint | unit_id
	spans := make(map[string][]span)
	width := uint32(len(cfg.Reads)) * 2
	if len(cfg.Targets) > 0 && width > maxWriteRegisters {
		return fmt.Errorf("targets: %d reads need %d registers, a single write carries at most %d",
			len(cfg.Reads), width, maxWriteRegisters)
	}

	for i, t := range cfg.Targets {
		if t.Endpoint == "" {
			return fmt.Errorf("targets[%d]: endpoint required", i)
		}

		start := uint32(t.Address)
		end := start + width - 1
		if end > 0xFFFF {
			return fmt.Errorf("targets[%d]: %d registers at address %d exceed register space", i, width, start)
		}

		key := fmt.Sprintf("%s|%d", t.Endpoint, t.UnitID)
		for _, s := range spans[key] {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"target overlap: endpoint=%s unit_id=%d range=%d-%d overlaps targets[%d] range=%d-%d",
					t.Endpoint, t.UnitID, start, end, s.idx, s.start, s.end,
				)
			}
		}
		spans[key] = append(spans[key], span{start: start, end: end, idx: i})
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if st := cfg.Status; st != nil {
		if st.Endpoint == "" {
			return fmt.Errorf("status: endpoint required")
		}
		for i := 0; i < len(st.DeviceName); i++ {
			if st.DeviceName[i] > 0x7F {
				return fmt.Errorf("status: device_name must contain ASCII characters only")
			}
		}
		if (uint32(st.Slot)+1)*status.SlotsPerDevice > 0x10000 {
			return fmt.Errorf("status: slot %d exceeds register space", st.Slot)
		}

		key := fmt.Sprintf("%s|%d", st.Endpoint, st.UnitID)
		start := uint32(st.Slot) * status.SlotsPerDevice
		end := start + status.SlotsPerDevice - 1
		for _, s := range spans[key] {
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"status block %d-%d overlaps targets[%d] range=%d-%d",
					start, end, s.idx, s.start, s.end,
				)
			}
		}
	}

	return nil
}
