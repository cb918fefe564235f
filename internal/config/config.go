// Package config defines the pipeline configuration and provides validation
// helpers. Fields are populated from a TOML file and then optionally
// overridden by SANDWICH_* environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	RPC       RPCConfig       `toml:"rpc"`
	Scan      ScanConfig      `toml:"scan"`
	Detection DetectionConfig `toml:"detection"`
	Profit    ProfitConfig    `toml:"profit"`
	Storage   StorageConfig   `toml:"storage"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Output    OutputConfig    `toml:"output"`
}

// RPCConfig holds Solana node endpoints.
type RPCConfig struct {
	Endpoint   string   `toml:"endpoint"`
	WSEndpoint string   `toml:"ws_endpoint"`
	Timeout    duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
	RetryDelay duration `toml:"retry_delay"`
}

// ScanConfig holds fetch-regime parameters.
type ScanConfig struct {
	SlotWindow     int64    `toml:"slot_window"`
	BatchSize      int      `toml:"batch_size"`
	BatchDelay     duration `toml:"batch_delay"`
	SignatureLimit int      `toml:"signature_limit"`
}

// DetectionConfig holds detector parameters.
type DetectionConfig struct {
	MaxSlotGap int64 `toml:"max_slot_gap"`
	Exclusive  bool  `toml:"exclusive"`
}

// ProfitConfig holds profit analysis parameters.
type ProfitConfig struct {
	PriceAPIURL string `toml:"price_api_url"`
	TopBots     int    `toml:"top_bots"`
}

// StorageConfig holds database connection strings. Empty DSNs disable the
// corresponding backend; the pipeline then works purely on JSON artifacts.
type StorageConfig struct {
	PostgresDSN   string `toml:"postgres_dsn"`
	ClickhouseDSN string `toml:"clickhouse_dsn"`
}

// MetricsConfig holds the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// OutputConfig holds the artifact directory.
type OutputConfig struct {
	ResultsDir string `toml:"results_dir"`
}

// duration wraps time.Duration for TOML decoding of strings like "100ms".
type duration struct {
	time.Duration
}

// UnmarshalText implements toml string decoding for duration.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		RPC: RPCConfig{
			Endpoint:   "https://api.mainnet-beta.solana.com",
			WSEndpoint: "wss://api.mainnet-beta.solana.com",
			Timeout:    duration{30 * time.Second},
			MaxRetries: 3,
			RetryDelay: duration{500 * time.Millisecond},
		},
		Scan: ScanConfig{
			SlotWindow:     300,
			BatchSize:      20,
			BatchDelay:     duration{100 * time.Millisecond},
			SignatureLimit: 100,
		},
		Detection: DetectionConfig{
			MaxSlotGap: 4,
		},
		Profit: ProfitConfig{
			PriceAPIURL: "https://lite-api.jup.ag/price/v3",
			TopBots:     5,
		},
		Metrics: MetricsConfig{
			Addr: ":9104",
		},
		Output: OutputConfig{
			ResultsDir: "results",
		},
	}
}

// Validate checks the configuration for values that would break a run.
func (c *Config) Validate() error {
	if c.RPC.Endpoint == "" {
		return fmt.Errorf("rpc.endpoint must be set")
	}
	if c.Scan.SlotWindow <= 0 {
		return fmt.Errorf("scan.slot_window must be positive, got %d", c.Scan.SlotWindow)
	}
	if c.Scan.BatchSize <= 0 {
		return fmt.Errorf("scan.batch_size must be positive, got %d", c.Scan.BatchSize)
	}
	if c.Detection.MaxSlotGap <= 0 {
		return fmt.Errorf("detection.max_slot_gap must be positive, got %d", c.Detection.MaxSlotGap)
	}
	if c.Profit.TopBots <= 0 {
		return fmt.Errorf("profit.top_bots must be positive, got %d", c.Profit.TopBots)
	}
	if c.Output.ResultsDir == "" {
		return fmt.Errorf("output.results_dir must be set")
	}
	return nil
}
