package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dirkeeper/internal/flagx"
	"github.com/dmitrijs2005/dirkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations use timex.Duration, so the file may say "10s" or give
// integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	APIKey         string         `json:"api_key"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
	PageSize       int            `json:"page_size"`
	ErrorTTL       timex.Duration `json:"error_ttl"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys missing from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ErrorTTL.Duration > 0 {
		cfg.ErrorTTL = jc.ErrorTTL.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
