package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	IdleTickMS  int    `yaml:"idle_tick_ms"` // interval of idle pulses while the ready queue is empty
	EventBuffer int    `yaml:"event_buffer"` // capacity of the trace event channel
	TraceCSV    string `yaml:"trace_csv"`    // optional CSV trace path, empty = disabled
	QuietIdle   bool   `yaml:"quiet_idle"`   // suppress idle lines on stdout
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		IdleTickMS:  5,
		EventBuffer: 256,
		QuietIdle:   true,
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.IdleTickMS <= 0 {
		cfg.IdleTickMS = 5
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}

	return cfg
}
