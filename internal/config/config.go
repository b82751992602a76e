package config

type Config struct {
	Probe   ProbeConfig    `yaml:"probe" toml:"probe"`
	Startup []string       `yaml:"startup" toml:"startup"` // line sequences run once after init
	Writes  []WriteConfig  `yaml:"writes" toml:"writes"`
	Reads   []ReadConfig   `yaml:"reads" toml:"reads"`
	Poll    PollConfig     `yaml:"poll" toml:"poll"`
	Targets []TargetConfig `yaml:"targets" toml:"targets"`
	Status  *StatusConfig  `yaml:"status" toml:"status"`
}

// ---- PROBE ----

type ProbeConfig struct {
	ID       string `yaml:"id" toml:"id"`
	Device   string `yaml:"device" toml:"device"`
	BaudRate int    `yaml:"baud_rate" toml:"baud_rate"`

	TimeoutMs     int `yaml:"timeout_ms" toml:"timeout_ms"` // per response line
	MaxLine       int `yaml:"max_line" toml:"max_line"`
	MaxPending    int `yaml:"max_pending" toml:"max_pending"`
	InitSyncLines int `yaml:"init_sync_lines" toml:"init_sync_lines"`
	InitTimeoutMs int `yaml:"init_timeout_ms" toml:"init_timeout_ms"`

	// "srst" or "trst_srst"
	ResetStyle string `yaml:"reset_style" toml:"reset_style"`

	// "value_cmd" (firmware default) or "cmd_value"
	WriteOrder string `yaml:"write_order" toml:"write_order"`

	// Optional file receiving firmware diagnostics and wire trace.
	DiagLog string `yaml:"diag_log" toml:"diag_log"`
}

// ---- REGISTER ACCESS ----

type WriteConfig struct {
	Cmd   uint8  `yaml:"cmd" toml:"cmd"`
	Value uint32 `yaml:"value" toml:"value"`
	Idle  uint32 `yaml:"idle" toml:"idle"`
}

type ReadConfig struct {
	Name string `yaml:"name" toml:"name"`
	Cmd  uint8  `yaml:"cmd" toml:"cmd"`
	Idle uint32 `yaml:"idle" toml:"idle"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms" toml:"interval_ms"`
}

// ---- MODBUS PUBLISHING ----

// TargetConfig receives every read value as two holding registers
// (high word first) starting at Address.
type TargetConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id" toml:"unit_id"`
	Address   uint16 `yaml:"address" toml:"address"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`
}

// StatusConfig enables the probe health block (opt-in).
type StatusConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id" toml:"unit_id"`
	Slot       uint16 `yaml:"slot" toml:"slot"`
	DeviceName string `yaml:"device_name" toml:"device_name"`
}
