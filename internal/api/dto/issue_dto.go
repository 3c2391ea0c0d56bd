package dto

import (
	"time"

	"github.com/spec-kit/civic-report/internal/domain"
)

// LocationRequest carries an optional geolocation. Pointer fields let a
// half-supplied pair be rejected rather than silently zero-filled.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// MediaRequest is an attachment as submitted by the client.
type MediaRequest struct {
	Kind string `json:"kind"`
	Data string `json:"data"`
}

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Priority    domain.IssuePriority `json:"priority"`
	Emergency   bool                 `json:"emergency"`
	Location    *LocationRequest     `json:"location"`
	Media       *MediaRequest        `json:"media"`
	VoiceNote   *MediaRequest        `json:"voice_note"`
	Department  *string              `json:"department"`
}

// UpdateIssueRequest payload for PATCH /issues/:id. Unset fields are left
// unchanged.
type UpdateIssueRequest struct {
	Status     *domain.IssueStatus   `json:"status"`
	Department *string               `json:"department"`
	Priority   *domain.IssuePriority `json:"priority"`
}

// VerifyRequest payload for the standalone media check.
type VerifyRequest struct {
	Media    *MediaRequest `json:"media"`
	Category string        `json:"category"`
}

// VerifyResponse reports the gate outcome plus the category the surrounding
// application classified, defaulted when absent.
type VerifyResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Category string `json:"category"`
}

// MediaResponse mirrors a stored attachment.
type MediaResponse struct {
	Kind string `json:"kind"`
	Data string `json:"data"`
}

// IssueResponse mirrors the issue record.
type IssueResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Priority    domain.IssuePriority `json:"priority"`
	Emergency   bool                 `json:"emergency"`
	Status      domain.IssueStatus   `json:"status"`
	Department  *string              `json:"department,omitempty"`
	Location    *domain.Location     `json:"location,omitempty"`
	Media       *MediaResponse       `json:"media,omitempty"`
	VoiceNote   *MediaResponse       `json:"voice_note,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewIssueResponse maps a domain issue.
func NewIssueResponse(issue *domain.Issue) IssueResponse {
	return IssueResponse{
		ID:          issue.ID,
		UserID:      issue.UserID,
		Category:    issue.Category,
		Description: issue.Description,
		Priority:    issue.Priority,
		Emergency:   issue.Emergency,
		Status:      issue.Status,
		Department:  issue.Department,
		Location:    issue.Location,
		Media:       mediaResponse(issue.Media),
		VoiceNote:   mediaResponse(issue.VoiceNote),
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

// NewIssueResponses maps a slice of issues preserving order.
func NewIssueResponses(issues []domain.Issue) []IssueResponse {
	items := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, NewIssueResponse(&issues[i]))
	}
	return items
}

func mediaResponse(m *domain.Media) *MediaResponse {
	if m == nil {
		return nil
	}
	return &MediaResponse{Kind: string(m.Kind), Data: m.Data}
}

// ToMedia converts a request attachment, nil-safe.
func (m *MediaRequest) ToMedia() *domain.Media {
	if m == nil {
		return nil
	}
	return &domain.Media{Kind: domain.MediaKind(m.Kind), Data: m.Data}
}
