package config

import "testing"

// helper to build a valid config quickly
func base(reads int) *Config {
	cfg := &Config{
		Probe: ProbeConfig{Device: "/dev/ttyACM0"},
		Poll:  PollConfig{IntervalMs: 500},
	}
	for i := 0; i < reads; i++ {
		cfg.Reads = append(cfg.Reads, ReadConfig{Cmd: uint8(0xa5 + i)})
	}
	return cfg
}

func target(endpoint string, unitID uint8, addr uint16) TargetConfig {
	return TargetConfig{Endpoint: endpoint, UnitID: unitID, Address: addr}
}

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	if err := Validate(base(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoReads(t *testing.T) {
	if err := Validate(base(0)); err == nil {
		t.Fatalf("expected error for empty reads, got nil")
	}
}

func TestValidate_BadResetStyle(t *testing.T) {
	cfg := base(1)
	cfg.Probe.ResetStyle = "nrst"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected reset_style error, got nil")
	}
}

func TestValidate_BadWriteOrder(t *testing.T) {
	cfg := base(1)
	cfg.Probe.WriteOrder = "addr_value"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected write_order error, got nil")
	}

	cfg.Probe.WriteOrder = "cmd_value"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnsupportedStartupSequence(t *testing.T) {
	cfg := base(1)
	cfg.Startup = []string{"line_reset", "dormant_to_swd"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected startup error, got nil")
	}
}

func TestValidate_ReadsExceedMaxPending(t *testing.T) {
	cfg := base(3)
	cfg.Probe.MaxPending = 2

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected max_pending error, got nil")
	}
}

func TestValidate_DuplicateReadName(t *testing.T) {
	cfg := base(2)
	cfg.Reads[0].Name = "dpidr"
	cfg.Reads[1].Name = "dpidr"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate name error, got nil")
	}
}

func TestValidate_TouchingTargetsAllowed(t *testing.T) {
	cfg := base(2) // 4 registers per target
	cfg.Targets = []TargetConfig{
		target("ep1", 1, 0), // 0–3
		target("ep1", 1, 4), // 4–7
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TargetOverlapDetected(t *testing.T) {
	cfg := base(2)
	cfg.Targets = []TargetConfig{
		target("ep1", 1, 0), // 0–3
		target("ep1", 1, 3), // 3–6 → overlap
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_TargetWidthFitsOneWrite(t *testing.T) {
	cfg := base(61) // 122 registers
	cfg.Targets = []TargetConfig{target("ep1", 1, 0)}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg = base(62) // 124 registers
	cfg.Targets = []TargetConfig{target("ep1", 1, 0)}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected write size error, got nil")
	}

	cfg.Targets = nil
	if err := Validate(cfg); err != nil {
		t.Fatalf("reads without targets must pass: %v", err)
	}
}

func TestValidate_SameRangeDifferentUnit(t *testing.T) {
	cfg := base(2)
	cfg.Targets = []TargetConfig{
		target("ep1", 1, 0),
		target("ep1", 2, 0),
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_StatusOverlapsTarget(t *testing.T) {
	cfg := base(1)
	cfg.Targets = []TargetConfig{target("ep1", 1, 25)}
	cfg.Status = &StatusConfig{Endpoint: "ep1", UnitID: 1, Slot: 1} // 20–39

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected status overlap error, got nil")
	}
}

func TestValidate_StatusNonASCIIName(t *testing.T) {
	cfg := base(1)
	cfg.Status = &StatusConfig{Endpoint: "ep1", DeviceName: "sonde-é"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected device_name error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := base(1)
	cfg.Probe.Device = ""
	cfg.Status = &StatusConfig{Endpoint: "ep1", DeviceName: "a-very-long-probe-name"}

	Normalize(cfg)

	if cfg.Probe.Device != DefaultDevice {
		t.Fatalf("device: got=%q want=%q", cfg.Probe.Device, DefaultDevice)
	}
	if cfg.Probe.ResetStyle != "srst" || cfg.Probe.WriteOrder != "value_cmd" || cfg.Probe.MaxLine != 64 {
		t.Fatalf("probe defaults not applied: %+v", cfg.Probe)
	}
	if len(cfg.Status.DeviceName) != 16 {
		t.Fatalf("device_name not truncated: %q", cfg.Status.DeviceName)
	}
}
