package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/events"
	"github.com/spec-kit/civic-report/internal/media"
	"github.com/spec-kit/civic-report/internal/repository"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// IssueService coordinates the issue lifecycle: creation through the
// authenticity gate, administrator status overrides, and filtered listing.
type IssueService struct {
	issues     repository.IssueRepository
	users      repository.UserRepository
	gate       media.Gate
	dispatcher events.Dispatcher
	now        func() time.Time
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	UserRepo   repository.UserRepository
	Gate       media.Gate
	Dispatcher events.Dispatcher
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		users:      deps.UserRepo,
		gate:       deps.Gate,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// IssueCreateInput describes issue creation payload.
type IssueCreateInput struct {
	Category    string
	Description string
	Priority    domain.IssuePriority
	Emergency   bool
	Location    *domain.Location
	Media       *domain.Media
	VoiceNote   *domain.Media
	Department  *string
}

// IssueUpdateInput carries the optional fields of a status update. Unset
// fields leave the record unchanged; UpdatedAt is refreshed regardless.
type IssueUpdateInput struct {
	Status     *domain.IssueStatus
	Department *string
	Priority   *domain.IssuePriority
}

// Create validates the payload, applies the authenticity gate to pick the
// initial status, and stores the record.
func (s *IssueService) Create(ctx context.Context, userID string, input IssueCreateInput) (*domain.Issue, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if input.Priority == "" {
		return nil, apperrors.NewValidationError("priority required", nil)
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	status := domain.IssueStatusReported
	if assessment := s.gate.Assess(input.Media); !assessment.Accepted {
		status = domain.IssueStatusSpam
	}

	now := s.now()
	issue := &domain.Issue{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Emergency:   input.Emergency,
		Status:      status,
		Department:  input.Department,
		Location:    input.Location,
		Media:       input.Media,
		VoiceNote:   input.VoiceNote,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{
			UserID:    issue.UserID,
			Category:  issue.Category,
			Priority:  issue.Priority,
			Status:    issue.Status,
			Emergency: issue.Emergency,
		},
	})
	return issue, nil
}

// UpdateStatus applies an administrator override. There is no transition
// table: any status may overwrite any status.
func (s *IssueService) UpdateStatus(ctx context.Context, issueID string, input IssueUpdateInput) (*domain.Issue, error) {
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !domain.ValidPriority(*input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	if input.Status != nil {
		issue.Status = *input.Status
	}
	if input.Department != nil {
		issue.Department = input.Department
	}
	if input.Priority != nil {
		issue.Priority = *input.Priority
	}
	issue.UpdatedAt = s.now()

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, err
	}
	if issue.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:    events.EventIssueStatusChanged,
			IssueID: issue.ID,
			Payload: events.IssueStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: issue.Status,
			},
		})
	}
	return issue, nil
}

// List returns issues newest-first with the conjunctive filters applied.
func (s *IssueService) List(ctx context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	return s.issues.List(ctx, filter)
}

// Get fetches a single issue.
func (s *IssueService) Get(ctx context.Context, issueID string) (*domain.Issue, error) {
	return s.issues.GetByID(ctx, issueID)
}

func (s *IssueService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// WithClock overrides the service clock. Intended for tests.
func (s *IssueService) WithClock(now func() time.Time) *IssueService {
	s.now = now
	return s
}
