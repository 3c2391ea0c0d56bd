package events

import (
	"time"

	"github.com/spec-kit/civic-report/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueEscalated     EventType = "issue_escalated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	UserID    string               `json:"user_id"`
	Category  string               `json:"category"`
	Priority  domain.IssuePriority `json:"priority"`
	Status    domain.IssueStatus   `json:"status"`
	Emergency bool                 `json:"emergency"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}

// IssueEscalatedPayload payload.
type IssueEscalatedPayload struct {
	OldStatus  domain.IssueStatus `json:"old_status"`
	Department string             `json:"department"`
	AgeDays    int                `json:"age_days"`
}
