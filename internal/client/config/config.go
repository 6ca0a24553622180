// Package config assembles the client runtime settings from defaults, an
// optional JSON file, and command-line flags, in that order of precedence.
package config

import "time"

// Config holds runtime settings for the ocean-hazard reporting client.
type Config struct {
	// ServerBaseURL is the backend root, e.g. "http://127.0.0.1:8000".
	ServerBaseURL string

	// StoreDSN is the path of the local SQLite database.
	StoreDSN string

	// ProbeInterval is how often the client probes backend reachability.
	ProbeInterval time.Duration

	// SubmitTimeout bounds a direct (online) submission.
	SubmitTimeout time.Duration

	// SyncRecordTimeout bounds one record's submission during a drain.
	// Generous: queued records carry full image payloads over potentially
	// poor coastal connectivity.
	SyncRecordTimeout time.Duration

	// MaxImageBytes caps the accepted report photo size.
	MaxImageBytes int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.StoreDSN = "oceanwatch.db"
	c.ProbeInterval = 5 * time.Second
	c.SubmitTimeout = 15 * time.Second
	c.SyncRecordTimeout = 30 * time.Second
	c.MaxImageBytes = 10 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
