package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SANDWICH_* environment variable overrides, and
// returns the final Config. An empty path skips the TOML file and uses
// defaults plus environment only. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SANDWICH_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject endpoints and DSNs at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.RPC.Endpoint, "SANDWICH_RPC_ENDPOINT")
	setStr(&cfg.RPC.Endpoint, "RPC_ENDPOINT") // compatibility alias
	setStr(&cfg.RPC.WSEndpoint, "SANDWICH_RPC_WS_ENDPOINT")
	setDuration(&cfg.RPC.Timeout, "SANDWICH_RPC_TIMEOUT")
	setInt(&cfg.RPC.MaxRetries, "SANDWICH_RPC_MAX_RETRIES")
	setDuration(&cfg.RPC.RetryDelay, "SANDWICH_RPC_RETRY_DELAY")

	setInt64(&cfg.Scan.SlotWindow, "SANDWICH_SCAN_SLOT_WINDOW")
	setInt(&cfg.Scan.BatchSize, "SANDWICH_SCAN_BATCH_SIZE")
	setDuration(&cfg.Scan.BatchDelay, "SANDWICH_SCAN_BATCH_DELAY")
	setInt(&cfg.Scan.SignatureLimit, "SANDWICH_SCAN_SIGNATURE_LIMIT")

	setInt64(&cfg.Detection.MaxSlotGap, "SANDWICH_DETECTION_MAX_SLOT_GAP")
	setBool(&cfg.Detection.Exclusive, "SANDWICH_DETECTION_EXCLUSIVE")

	setStr(&cfg.Profit.PriceAPIURL, "SANDWICH_PROFIT_PRICE_API_URL")
	setInt(&cfg.Profit.TopBots, "SANDWICH_PROFIT_TOP_BOTS")

	setStr(&cfg.Storage.PostgresDSN, "SANDWICH_STORAGE_POSTGRES_DSN")
	setStr(&cfg.Storage.ClickhouseDSN, "SANDWICH_STORAGE_CLICKHOUSE_DSN")

	setBool(&cfg.Metrics.Enabled, "SANDWICH_METRICS_ENABLED")
	setStr(&cfg.Metrics.Addr, "SANDWICH_METRICS_ADDR")

	setStr(&cfg.Output.ResultsDir, "SANDWICH_OUTPUT_RESULTS_DIR")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
