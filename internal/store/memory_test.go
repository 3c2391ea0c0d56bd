package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/repository"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

func newIssue(id string, createdAt time.Time) *domain.Issue {
	return &domain.Issue{
		ID:          id,
		UserID:      "user-1",
		Category:    "Road",
		Description: "pothole",
		Priority:    domain.IssuePriorityMedium,
		Status:      domain.IssueStatusReported,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestMemoryIssueListNewestFirst(t *testing.T) {
	repo := NewMemoryIssueRepository()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.Create(ctx, newIssue("a", base)))
	require.NoError(t, repo.Create(ctx, newIssue("b", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newIssue("c", base.Add(2*time.Second))))

	issues, err := repo.List(ctx, repository.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 3)
	require.Equal(t, "c", issues[0].ID)
	require.Equal(t, "b", issues[1].ID)
	require.Equal(t, "a", issues[2].ID)
}

func TestMemoryIssueListFilters(t *testing.T) {
	repo := NewMemoryIssueRepository()
	ctx := context.Background()
	base := time.Now()

	road := newIssue("road", base)
	water := newIssue("water", base.Add(time.Hour))
	water.Category = "Water"
	water.Status = domain.IssueStatusResolved
	water.Priority = domain.IssuePriorityHigh
	require.NoError(t, repo.Create(ctx, road))
	require.NoError(t, repo.Create(ctx, water))

	category := "Water"
	issues, err := repo.List(ctx, repository.IssueFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "water", issues[0].ID)

	status := domain.IssueStatusReported
	issues, err = repo.List(ctx, repository.IssueFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "road", issues[0].ID)

	from := base.Add(30 * time.Minute)
	issues, err = repo.List(ctx, repository.IssueFilter{CreatedFrom: &from})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "water", issues[0].ID)

	to := base.Add(30 * time.Minute)
	issues, err = repo.List(ctx, repository.IssueFilter{CreatedTo: &to})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "road", issues[0].ID)

	// conjunctive: both must match
	priority := domain.IssuePriorityLow
	issues, err = repo.List(ctx, repository.IssueFilter{Category: &category, Priority: &priority})
	require.NoError(t, err)
	require.Empty(t, issues)
}

func TestMemoryIssueUpdateUnknownID(t *testing.T) {
	repo := NewMemoryIssueRepository()

	err := repo.Update(context.Background(), newIssue("ghost", time.Now()))

	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))
}

func TestMemoryIssueEscalate(t *testing.T) {
	repo := NewMemoryIssueRepository()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newIssue("a", now.Add(-8*24*time.Hour))))

	result, err := repo.Escalate(ctx, "a", "Commissioner", now)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, domain.IssueStatusReported, result.PrevStatus)
	require.Equal(t, "Commissioner", result.Department)

	issue, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusAssigned, issue.Status)
	require.Equal(t, "Commissioner", *issue.Department)
	require.Equal(t, now, issue.UpdatedAt)
}

func TestMemoryIssueEscalateSkipsResolved(t *testing.T) {
	repo := NewMemoryIssueRepository()
	ctx := context.Background()
	resolved := newIssue("done", time.Now().Add(-30*24*time.Hour))
	resolved.Status = domain.IssueStatusResolved
	require.NoError(t, repo.Create(ctx, resolved))

	result, err := repo.Escalate(ctx, "done", "Commissioner", time.Now())
	require.NoError(t, err)
	require.Nil(t, result)

	issue, err := repo.GetByID(ctx, "done")
	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusResolved, issue.Status)
	require.Nil(t, issue.Department)
}

func TestMemoryIssueEscalateKeepsDepartmentAndSkipsUnknown(t *testing.T) {
	repo := NewMemoryIssueRepository()
	ctx := context.Background()
	dept := "Roads Department"
	issue := newIssue("a", time.Now().Add(-8*24*time.Hour))
	issue.Department = &dept
	require.NoError(t, repo.Create(ctx, issue))

	result, err := repo.Escalate(ctx, "a", "Commissioner", time.Now())
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "Roads Department", result.Department)

	result, err = repo.Escalate(ctx, "ghost", "Commissioner", time.Now())
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestMemoryIssueGetReturnsCopy(t *testing.T) {
	repo := NewMemoryIssueRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newIssue("a", time.Now())))

	first, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	first.Status = domain.IssueStatusSpam

	second, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusReported, second.Status)
}

func TestMemoryUserIdentifierUniqueness(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleUser}))

	err := repo.Create(ctx, &domain.User{ID: "u2", Email: "a@example.com", Role: domain.RoleUser})
	require.Error(t, err)

	// different identifier type is fine
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u3", NationalID: "1234567890", Role: domain.RoleUser}))

	err = repo.Create(ctx, &domain.User{ID: "u4", NationalID: "1234567890", Role: domain.RoleUser})
	require.Error(t, err)
}

func TestMemoryUserGetByIdentifier(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com", NationalID: "99", Role: domain.RoleUser}))

	byEmail, err := repo.GetByIdentifier(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)

	byNID, err := repo.GetByIdentifier(ctx, "99")
	require.NoError(t, err)
	require.Equal(t, "u1", byNID.ID)

	_, err = repo.GetByIdentifier(ctx, "missing")
	require.True(t, apperrors.IsNotFound(err))
}
