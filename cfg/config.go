package cfg

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// CDCConfiguration controls the change-data-capture observation layer
type CDCConfiguration struct {
	MemoryQuotaMB       int `toml:"memory_quota_mb"`       // Nominal bound for buffered change data
	OldValueCacheSize   int `toml:"old_value_cache_size"`  // Entries in the old-value LRU cache
	SchedulerPendingCap int `toml:"scheduler_pending_cap"` // Pending tasks the endpoint scheduler accepts
}

// StorageConfiguration controls the local storage engine
type StorageConfiguration struct {
	CacheSizeMB int `toml:"cache_size_mb"` // Pebble block cache size
}

// LoggingConfiguration controls logging behavior
type LoggingConfiguration struct {
	Verbose bool   `toml:"verbose"`
	Format  string `toml:"format"` // "console" or "json"
}

// PrometheusConfiguration for metrics
type PrometheusConfiguration struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
	Port    int    `toml:"port"`
}

// Configuration is the main configuration structure
type Configuration struct {
	NodeID  uint64 `toml:"node_id"`
	DataDir string `toml:"data_dir"`

	CDC        CDCConfiguration        `toml:"cdc"`
	Storage    StorageConfiguration    `toml:"storage"`
	Logging    LoggingConfiguration    `toml:"logging"`
	Prometheus PrometheusConfiguration `toml:"prometheus"`
}

// Command line flags
var (
	ConfigPathFlag = flag.String("config", "config.toml", "Path to configuration file")
	DataDirFlag    = flag.String("data-dir", "", "Data directory (overrides config)")
	NodeIDFlag     = flag.Uint64("node-id", 0, "Node ID (overrides config)")
)

// Default configuration
var Config = &Configuration{
	NodeID:  1,
	DataDir: "./tikv-data",

	CDC: CDCConfiguration{
		MemoryQuotaMB:       1024,
		OldValueCacheSize:   16384,
		SchedulerPendingCap: 16384,
	},

	Storage: StorageConfiguration{
		CacheSizeMB: 256,
	},

	Logging: LoggingConfiguration{
		Verbose: false,
		Format:  "console",
	},

	Prometheus: PrometheusConfiguration{
		Enabled: true,
		Address: "0.0.0.0",
		Port:    9090,
	},
}

// Load loads configuration from file and applies CLI overrides
func Load(configPath string) error {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			log.Info().Str("path", configPath).Msg("Loading configuration")
			if _, err := toml.DecodeFile(configPath, Config); err != nil {
				return fmt.Errorf("failed to decode config: %w", err)
			}
		} else {
			log.Warn().Str("path", configPath).Msg("Config file not found, using defaults")
		}
	}

	// Apply CLI overrides
	if *DataDirFlag != "" {
		Config.DataDir = *DataDirFlag
	}
	if *NodeIDFlag != 0 {
		Config.NodeID = *NodeIDFlag
	}

	// Ensure data directory exists
	if err := os.MkdirAll(Config.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	return nil
}

// Validate checks configuration for errors
func Validate() error {
	if Config.NodeID == 0 {
		return fmt.Errorf("node id must be non-zero")
	}

	if Config.CDC.MemoryQuotaMB < 1 {
		return fmt.Errorf("CDC memory quota must be >= 1 MB")
	}

	if Config.CDC.OldValueCacheSize < 1 {
		return fmt.Errorf("CDC old value cache size must be >= 1")
	}

	if Config.CDC.SchedulerPendingCap < 1 {
		return fmt.Errorf("CDC scheduler pending capacity must be >= 1")
	}

	if Config.Storage.CacheSizeMB < 1 {
		return fmt.Errorf("storage cache size must be >= 1 MB")
	}

	if Config.Prometheus.Enabled && (Config.Prometheus.Port < 1 || Config.Prometheus.Port > 65535) {
		return fmt.Errorf("invalid prometheus port: %d", Config.Prometheus.Port)
	}

	switch Config.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %s", Config.Logging.Format)
	}

	return nil
}

// MemoryQuotaBytes returns the configured CDC memory quota in bytes.
func MemoryQuotaBytes() int64 {
	return int64(Config.CDC.MemoryQuotaMB) * 1024 * 1024
}
