package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	p := &cfg.Probe
	if p.ID == "" {
		p.ID = "probe"
	}
	if p.Device == "" {
		p.Device = DefaultDevice
	}
	if p.BaudRate == 0 {
		p.BaudRate = 115200
	}
	if p.TimeoutMs == 0 {
		p.TimeoutMs = 1000
	}
	if p.MaxLine == 0 {
		p.MaxLine = 64
	}
	if p.MaxPending == 0 {
		p.MaxPending = 1024
	}
	if p.InitSyncLines == 0 {
		p.InitSyncLines = 64
	}
	if p.InitTimeoutMs == 0 {
		p.InitTimeoutMs = 3000
	}
	if p.ResetStyle == "" {
		p.ResetStyle = "srst"
	}
	if p.WriteOrder == "" {
		p.WriteOrder = "value_cmd"
	}

	for i := range cfg.Targets {
		if cfg.Targets[i].TimeoutMs == 0 {
			cfg.Targets[i].TimeoutMs = 1000
		}
	}

	// Device name is ASCII (validated); truncate to the status block width.
	if cfg.Status != nil && len(cfg.Status.DeviceName) > 16 {
		cfg.Status.DeviceName = cfg.Status.DeviceName[:16]
	}
}
