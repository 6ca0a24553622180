package config

import (
	"encoding/json"
	"os"
	"time"

	"oceanwatch/internal/flagx"
	"oceanwatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL     string         `json:"server_base_url"`
	StoreDSN          string         `json:"store_dsn"`
	ProbeInterval     timex.Duration `json:"probe_interval"`
	SubmitTimeout     timex.Duration `json:"submit_timeout"`
	SyncRecordTimeout timex.Duration `json:"sync_record_timeout"`
	MaxImageBytes     int64          `json:"max_image_bytes"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. Absent file path means no overlay; absent fields keep their
// current values. Panics on read or unmarshal errors.
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.StoreDSN != "" {
		cfg.StoreDSN = jc.StoreDSN
	}
	if jc.ProbeInterval.Duration != 0 {
		cfg.ProbeInterval = time.Duration(jc.ProbeInterval.Duration)
	}
	if jc.SubmitTimeout.Duration != 0 {
		cfg.SubmitTimeout = time.Duration(jc.SubmitTimeout.Duration)
	}
	if jc.SyncRecordTimeout.Duration != 0 {
		cfg.SyncRecordTimeout = time.Duration(jc.SyncRecordTimeout.Duration)
	}
	if jc.MaxImageBytes != 0 {
		cfg.MaxImageBytes = jc.MaxImageBytes
	}
}
