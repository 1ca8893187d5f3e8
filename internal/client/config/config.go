package config

import "time"

// Config holds runtime settings for the dirkeeper console.
//
// Fields:
//   - BaseURL: root of the directory REST API, e.g. https://reqres.in/api.
//   - APIKey: value of the x-api-key header sent on every request.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: SQLite file holding the persisted session token.
//   - PageSize: rows per page of the client-side table view.
//   - ErrorTTL: how long an error banner stays before it is cleared.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL        string        `env:"DIRKEEPER_BASE_URL"`
	APIKey         string        `env:"DIRKEEPER_API_KEY"`
	RequestTimeout time.Duration `env:"DIRKEEPER_REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"DIRKEEPER_DB_PATH"`
	PageSize       int           `env:"DIRKEEPER_PAGE_SIZE"`
	ErrorTTL       time.Duration `env:"DIRKEEPER_ERROR_TTL"`
	LogLevel       string        `env:"DIRKEEPER_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://reqres.in/api"
	c.APIKey = "reqres-free-v1"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "dirkeeper.db"
	c.PageSize = 6
	c.ErrorTTL = 5 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
