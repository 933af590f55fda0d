package config

import (
	"encoding/json"
	"os"

	"ventascli/internal/flagx"
	"ventascli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given either as strings like "10m" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	EditWindow     timex.Duration `json:"edit_window"`
	PageSize       int            `json:"page_size"`
	CacheDBPath    string         `json:"cache_db_path"`
}

// parseJson overlays Config with values loaded from a JSON file named by the
// -c/-config flags (resolved via flagx.JsonConfigFlags). Only fields present
// in the file override the current values. Panics on read or unmarshal
// errors, matching the fail-fast startup behavior of parseFlags.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
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

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.EditWindow.Duration > 0 {
		cfg.EditWindow = jc.EditWindow.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.CacheDBPath != "" {
		cfg.CacheDBPath = jc.CacheDBPath
	}
}
