package sched

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Defaults verifies the no-file fallback
// Given: An empty or missing config path
// When: Load is called
// Then: Default values are returned
func TestLoad_Defaults(t *testing.T) {
	for _, path := range []string{"", "does-not-exist.yml"} {
		cfg := Load(path)
		if cfg.IdleTickMS != 5 {
			t.Errorf("Load(%q).IdleTickMS = %d, want 5", path, cfg.IdleTickMS)
		}
		if cfg.EventBuffer != 256 {
			t.Errorf("Load(%q).EventBuffer = %d, want 256", path, cfg.EventBuffer)
		}
		if !cfg.QuietIdle {
			t.Errorf("Load(%q).QuietIdle = false, want true", path)
		}
	}
}

// TestLoad_Overrides verifies YAML overrides
// Given: A config file setting every field
// When: Load is called
// Then: The file values replace the defaults
func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("idle_tick_ms: 20\nevent_buffer: 8\ntrace_csv: trace.csv\nquiet_idle: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg.IdleTickMS != 20 {
		t.Errorf("IdleTickMS = %d, want 20", cfg.IdleTickMS)
	}
	if cfg.EventBuffer != 8 {
		t.Errorf("EventBuffer = %d, want 8", cfg.EventBuffer)
	}
	if cfg.TraceCSV != "trace.csv" {
		t.Errorf("TraceCSV = %q, want trace.csv", cfg.TraceCSV)
	}
	if cfg.QuietIdle {
		t.Error("QuietIdle = true, want false")
	}
}

// TestLoad_Clamps verifies the sanity clamps
// Given: A config file with out-of-range values
// When: Load is called
// Then: The values are clamped back to defaults
func TestLoad_Clamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("idle_tick_ms: -3\nevent_buffer: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg.IdleTickMS != 5 {
		t.Errorf("IdleTickMS = %d, want clamped 5", cfg.IdleTickMS)
	}
	if cfg.EventBuffer != 256 {
		t.Errorf("EventBuffer = %d, want clamped 256", cfg.EventBuffer)
	}
}
