package cfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	original := Config
	defer func() { Config = original }()

	Config = &Configuration{
		NodeID:  1,
		DataDir: "./test-data",
		CDC: CDCConfiguration{
			MemoryQuotaMB:       512,
			OldValueCacheSize:   1024,
			SchedulerPendingCap: 1024,
		},
		Storage: StorageConfiguration{
			CacheSizeMB: 64,
		},
		Logging: LoggingConfiguration{
			Format: "console",
		},
		Prometheus: PrometheusConfiguration{
			Enabled: true,
			Port:    9090,
		},
	}

	if err := Validate(); err != nil {
		t.Errorf("Expected no error for valid config, got: %v", err)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	original := Config
	defer func() { Config = original }()

	base := func() *Configuration {
		return &Configuration{
			NodeID:  1,
			DataDir: "./test-data",
			CDC: CDCConfiguration{
				MemoryQuotaMB:       512,
				OldValueCacheSize:   1024,
				SchedulerPendingCap: 1024,
			},
			Storage: StorageConfiguration{CacheSizeMB: 64},
			Logging: LoggingConfiguration{Format: "console"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"zero node id", func(c *Configuration) { c.NodeID = 0 }},
		{"zero memory quota", func(c *Configuration) { c.CDC.MemoryQuotaMB = 0 }},
		{"zero old value cache", func(c *Configuration) { c.CDC.OldValueCacheSize = 0 }},
		{"zero scheduler cap", func(c *Configuration) { c.CDC.SchedulerPendingCap = 0 }},
		{"zero storage cache", func(c *Configuration) { c.Storage.CacheSizeMB = 0 }},
		{"bad prometheus port", func(c *Configuration) {
			c.Prometheus.Enabled = true
			c.Prometheus.Port = 70000
		}},
		{"bad logging format", func(c *Configuration) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		Config = base()
		tt.mutate(Config)
		if err := Validate(); err == nil {
			t.Errorf("Expected error for %s", tt.name)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	original := Config
	defer func() { Config = original }()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
node_id = 7
data_dir = "` + filepath.Join(dir, "data") + `"

[cdc]
memory_quota_mb = 2048
old_value_cache_size = 4096

[logging]
verbose = true
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	Config = &Configuration{DataDir: dir, CDC: CDCConfiguration{MemoryQuotaMB: 1}}
	if err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if Config.NodeID != 7 {
		t.Errorf("Expected node_id 7, got %d", Config.NodeID)
	}
	if Config.CDC.MemoryQuotaMB != 2048 {
		t.Errorf("Expected memory_quota_mb 2048, got %d", Config.CDC.MemoryQuotaMB)
	}
	if Config.CDC.OldValueCacheSize != 4096 {
		t.Errorf("Expected old_value_cache_size 4096, got %d", Config.CDC.OldValueCacheSize)
	}
	if Config.Logging.Format != "json" {
		t.Errorf("Expected json logging format, got %s", Config.Logging.Format)
	}

	if _, err := os.Stat(Config.DataDir); err != nil {
		t.Errorf("Expected data dir to be created: %v", err)
	}
}

func TestMemoryQuotaBytes(t *testing.T) {
	original := Config
	defer func() { Config = original }()

	Config = &Configuration{CDC: CDCConfiguration{MemoryQuotaMB: 3}}
	if got := MemoryQuotaBytes(); got != 3*1024*1024 {
		t.Errorf("Expected %d bytes, got %d", 3*1024*1024, got)
	}
}
