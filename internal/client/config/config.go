package config

import "time"

// Config holds runtime settings for the Ventas CLI.
//
// Fields:
//   - BaseURL: root of the backend REST API (already including any /api prefix).
//   - RequestTimeout: per-request HTTP timeout.
//   - EditWindow: how long after creation a sale stays editable. The server
//     enforces its own copy of this rule; the client value drives the local
//     countdown and the user-facing messages.
//   - PageSize: sales fetched per history page.
//   - CacheDBPath: sqlite file for the session cache.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	EditWindow     time.Duration
	PageSize       int
	CacheDBPath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.EditWindow = 10 * time.Minute
	c.PageSize = 10
	c.CacheDBPath = "ventas.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
