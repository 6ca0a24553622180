package models

import "time"

// SOSFields holds the raw form values of an SOS alert. SOS alerts carry no
// image; attaching one is unsupported rather than silently dropped.
type SOSFields struct {
	Phone        string
	Description  string
	Latitude     string
	Longitude    string
	LocationName string
}

// PendingSOS is an SOS alert captured while offline, text fields only.
type PendingSOS struct {
	ID           int64
	UserID       string
	Phone        string
	Description  string
	Latitude     float64
	Longitude    float64
	LocationName string
	QueuedAt     time.Time
}
