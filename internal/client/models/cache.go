package models

import "time"

// CacheEntry is the last-known-good response body for a logical API query,
// kept so dashboards remain viewable while offline. At most one entry exists
// per key; writes overwrite.
type CacheEntry struct {
	Key       string
	Value     []byte
	FetchedAt time.Time
}
