// Package models defines the client-side records held in the local store and
// the raw form values the capture pipeline validates.
package models

import "time"

// Hazard types accepted by the backend.
const (
	HazardTsunami  = "tsunami"
	HazardCyclone  = "cyclone"
	HazardHighTide = "high_tide"
)

// Severity levels accepted by the backend.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// KnownHazardType reports whether t is one of the accepted hazard types.
func KnownHazardType(t string) bool {
	switch t {
	case HazardTsunami, HazardCyclone, HazardHighTide:
		return true
	}
	return false
}

// KnownSeverity reports whether s is one of the accepted severity levels.
func KnownSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ReportFields holds the raw form values of a hazard report, before
// validation. Latitude and longitude are kept as strings here because that is
// how they arrive from the form.
type ReportFields struct {
	HazardType   string
	Severity     string
	Description  string
	Latitude     string
	Longitude    string
	LocationName string
}

// Image is the binary photo evidence attached to a hazard report.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// PendingReport is a hazard report captured while offline, held in the local
// store until successfully delivered. ID and QueuedAt are local bookkeeping
// and are never sent to the backend.
//
// A PendingReport is immutable after creation: it is either deleted after a
// confirmed sync or left untouched for the next drain.
type PendingReport struct {
	ID           int64
	UserID       string
	HazardType   string
	Severity     string
	Description  string
	Latitude     float64
	Longitude    float64
	LocationName string
	Image        []byte
	ImageType    string
	QueuedAt     time.Time
}
