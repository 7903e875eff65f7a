package constants

import "strings"

// ApplicationStatus is the canonical status for rows in applications.
type ApplicationStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending   ApplicationStatus = "pending"   // submitted, no outcome yet
	StatusInterview ApplicationStatus = "interview" // interview scheduled or in progress
	StatusRejected  ApplicationStatus = "rejected"  // terminal rejection
	StatusAccepted  ApplicationStatus = "accepted"  // offer accepted
)

// Statuses lists every valid application status.
var Statuses = []ApplicationStatus{StatusPending, StatusInterview, StatusRejected, StatusAccepted}

// IsValidStatus reports whether s (already lowercased) is a known status.
func IsValidStatus(s string) bool {
	for _, st := range Statuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// NormalizeStatus lowercases and trims a status label, mapping anything
// outside the closed set to StatusPending.
func NormalizeStatus(s string) ApplicationStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsValidStatus(s) {
		return ApplicationStatus(s)
	}
	return StatusPending
}

// Defaults for required record fields when extraction comes back empty.
const (
	UnknownCompany      = "Unknown"
	UnspecifiedPosition = "Not Specified"
)

// Application sources.
const (
	SourceEmail  = "email"
	SourceImage  = "image"
	SourceManual = "manual"
)
