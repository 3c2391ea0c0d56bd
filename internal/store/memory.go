// Package store provides the in-memory reference engine behind the
// repository interfaces. It is the default when no Postgres DSN is
// configured and the authoritative description of entity semantics: request
// handlers and the escalation job share it under a single reader-writer
// discipline so a concurrent create and an escalation sweep cannot interleave
// into a lost update.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/repository"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// MemoryUserRepository is a mutex-guarded user table.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository builds an empty table.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

// Create stores the user, enforcing identifier uniqueness per type.
func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if user.Email != "" && existing.Email == user.Email {
			return apperrors.NewConflict("email already registered", nil)
		}
		if user.NationalID != "" && existing.NationalID == user.NationalID {
			return apperrors.NewConflict("national id already registered", nil)
		}
	}
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a copy of the stored user.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return &user, nil
}

// GetByIdentifier matches either email or national ID.
func (r *MemoryUserRepository) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if (user.Email != "" && user.Email == identifier) ||
			(user.NationalID != "" && user.NationalID == identifier) {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", nil)
}

// MemoryIssueRepository keeps issues in a map plus a newest-first order
// slice, reproducing the reference behavior of prepending new issues.
type MemoryIssueRepository struct {
	mu     sync.RWMutex
	issues map[string]domain.Issue
	order  []string
}

// NewMemoryIssueRepository builds an empty table.
func NewMemoryIssueRepository() *MemoryIssueRepository {
	return &MemoryIssueRepository{issues: make(map[string]domain.Issue)}
}

// Create stores the issue at the head of the listing order.
func (r *MemoryIssueRepository) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.issues[issue.ID]; exists {
		return apperrors.NewConflict("issue already exists", map[string]any{"id": issue.ID})
	}
	r.issues[issue.ID] = *issue
	r.order = append([]string{issue.ID}, r.order...)
	return nil
}

// Update overwrites the canonical record. Listing order is unchanged.
func (r *MemoryIssueRepository) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.issues[issue.ID]; !exists {
		return apperrors.NewNotFound("issue", map[string]any{"id": issue.ID})
	}
	r.issues[issue.ID] = *issue
	return nil
}

// Escalate promotes one issue to ASSIGNED. The resolved check and the
// mutation run inside the same critical section, so a resolve landing after
// a sweep snapshot is never overwritten. Skipped issues yield a nil result.
func (r *MemoryIssueRepository) Escalate(_ context.Context, id, department string, now time.Time) (*repository.EscalationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok || issue.Status == domain.IssueStatusResolved {
		return nil, nil
	}
	prev := issue.Status
	issue.Status = domain.IssueStatusAssigned
	if issue.Department == nil {
		dept := department
		issue.Department = &dept
	}
	issue.UpdatedAt = now
	r.issues[id] = issue
	return &repository.EscalationResult{PrevStatus: prev, Department: *issue.Department}, nil
}

// GetByID returns a copy of the stored issue.
func (r *MemoryIssueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, apperrors.NewNotFound("issue", map[string]any{"id": id})
	}
	return &issue, nil
}

// List returns issues newest-first, applying the conjunctive filters.
func (r *MemoryIssueRepository) List(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Issue, 0, len(r.order))
	for _, id := range r.order {
		issue := r.issues[id]
		if !matches(issue, filter) {
			continue
		}
		result = append(result, issue)
	}
	return result, nil
}

func matches(issue domain.Issue, filter repository.IssueFilter) bool {
	if filter.Category != nil && issue.Category != *filter.Category {
		return false
	}
	if filter.Status != nil && issue.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && issue.Priority != *filter.Priority {
		return false
	}
	if filter.CreatedFrom != nil && issue.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && issue.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}
