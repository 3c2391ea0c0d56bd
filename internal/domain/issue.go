package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusReported IssueStatus = "REPORTED"
	IssueStatusVerified IssueStatus = "VERIFIED"
	IssueStatusAssigned IssueStatus = "ASSIGNED"
	IssueStatusResolved IssueStatus = "RESOLVED"
	IssueStatusSpam     IssueStatus = "SPAM"
)

// IssuePriority enumerates reporter-declared urgency.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "LOW"
	IssuePriorityMedium IssuePriority = "MEDIUM"
	IssuePriorityHigh   IssuePriority = "HIGH"
)

// DefaultCategory is applied when the reporter omits a category.
const DefaultCategory = "Other"

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusReported, IssueStatusVerified, IssueStatusAssigned, IssueStatusResolved, IssueStatusSpam:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh:
		return true
	}
	return false
}

// Location is a reported geolocation. Both coordinates are always present
// together; a half-supplied pair is rejected at creation.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Issue is the aggregate for citizen-reported civic problems.
type Issue struct {
	ID          string
	UserID      string
	Category    string
	Description string
	Priority    IssuePriority
	Emergency   bool
	Status      IssueStatus
	Department  *string
	Location    *Location
	Media       *Media
	VoiceNote   *Media
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
