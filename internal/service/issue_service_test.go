package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/media"
	"github.com/spec-kit/civic-report/internal/repository"
	"github.com/spec-kit/civic-report/internal/store"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

type issueFixture struct {
	svc    *IssueService
	issues *store.MemoryIssueRepository
	userID string
}

func newIssueFixture(t *testing.T) *issueFixture {
	t.Helper()
	users := store.NewMemoryUserRepository()
	issues := store.NewMemoryIssueRepository()
	user := &domain.User{ID: "user-1", Email: "citizen@example.com", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))

	svc := NewIssueService(IssueDependencies{
		IssueRepo: issues,
		UserRepo:  users,
		Gate:      media.NewGate(),
	})
	return &issueFixture{svc: svc, issues: issues, userID: user.ID}
}

func photoOfSize(size int) *domain.Media {
	return &domain.Media{
		Kind: domain.MediaKindPhoto,
		Data: base64.StdEncoding.EncodeToString(make([]byte, size)),
	}
}

func TestCreateWithoutMediaIsSpam(t *testing.T) {
	f := newIssueFixture(t)

	issue, err := f.svc.Create(context.Background(), f.userID, IssueCreateInput{
		Description: "pothole on 5th",
		Priority:    domain.IssuePriorityMedium,
	})

	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusSpam, issue.Status)
	require.Equal(t, domain.DefaultCategory, issue.Category)
	require.Equal(t, issue.CreatedAt, issue.UpdatedAt)
}

func TestCreateWithLargePhotoIsReported(t *testing.T) {
	f := newIssueFixture(t)

	issue, err := f.svc.Create(context.Background(), f.userID, IssueCreateInput{
		Description: "broken streetlight",
		Priority:    domain.IssuePriorityHigh,
		Category:    "Electricity",
		Media:       photoOfSize(50000),
	})

	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusReported, issue.Status)
	require.Equal(t, "Electricity", issue.Category)
}

func TestCreateWithSmallPhotoIsSpam(t *testing.T) {
	f := newIssueFixture(t)

	issue, err := f.svc.Create(context.Background(), f.userID, IssueCreateInput{
		Description: "suspicious report",
		Priority:    domain.IssuePriorityLow,
		Media:       photoOfSize(100),
	})

	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusSpam, issue.Status)
}

func TestCreateValidation(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.userID, IssueCreateInput{Priority: domain.IssuePriorityLow})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Create(ctx, f.userID, IssueCreateInput{Description: "missing priority"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Create(ctx, f.userID, IssueCreateInput{Description: "bad priority", Priority: "URGENT"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCreateUnknownUser(t *testing.T) {
	f := newIssueFixture(t)

	_, err := f.svc.Create(context.Background(), "ghost", IssueCreateInput{
		Description: "pothole",
		Priority:    domain.IssuePriorityLow,
	})

	require.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatusUnknownIssue(t *testing.T) {
	f := newIssueFixture(t)

	status := domain.IssueStatusResolved
	_, err := f.svc.UpdateStatus(context.Background(), "xyz", IssueUpdateInput{Status: &status})

	require.True(t, apperrors.IsNotFound(err))

	issues, listErr := f.svc.List(context.Background(), repository.IssueFilter{})
	require.NoError(t, listErr)
	require.Empty(t, issues)
}

func TestUpdateStatusPartialFields(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.userID, IssueCreateInput{
		Description: "overflowing bin",
		Priority:    domain.IssuePriorityLow,
		Media:       photoOfSize(20000),
	})
	require.NoError(t, err)

	dept := "Sanitation"
	updated, err := f.svc.UpdateStatus(ctx, created.ID, IssueUpdateInput{Department: &dept})
	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusReported, updated.Status)
	require.Equal(t, domain.IssuePriorityLow, updated.Priority)
	require.Equal(t, &dept, updated.Department)

	status := domain.IssueStatusVerified
	priority := domain.IssuePriorityHigh
	updated, err = f.svc.UpdateStatus(ctx, created.ID, IssueUpdateInput{Status: &status, Priority: &priority})
	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusVerified, updated.Status)
	require.Equal(t, domain.IssuePriorityHigh, updated.Priority)
	require.Equal(t, &dept, updated.Department)
}

func TestUpdateStatusAllowsAnyOverride(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.userID, IssueCreateInput{
		Description: "spam report",
		Priority:    domain.IssuePriorityLow,
	})
	require.NoError(t, err)
	require.Equal(t, domain.IssueStatusSpam, created.Status)

	// administrators may pull an issue out of SPAM, or force anything else
	for _, status := range []domain.IssueStatus{
		domain.IssueStatusResolved,
		domain.IssueStatusReported,
		domain.IssueStatusSpam,
		domain.IssueStatusAssigned,
	} {
		s := status
		updated, err := f.svc.UpdateStatus(ctx, created.ID, IssueUpdateInput{Status: &s})
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	now := time.Now()
	f.svc.WithClock(func() time.Time { return now })

	created, err := f.svc.Create(ctx, f.userID, IssueCreateInput{
		Description: "pothole",
		Priority:    domain.IssuePriorityMedium,
	})
	require.NoError(t, err)

	now = now.Add(time.Minute)
	updated, err := f.svc.UpdateStatus(ctx, created.ID, IssueUpdateInput{})
	require.NoError(t, err)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestListNoFilterReturnsAllNewestFirst(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	now := time.Now()
	f.svc.WithClock(func() time.Time { return now })

	first, err := f.svc.Create(ctx, f.userID, IssueCreateInput{Description: "first", Priority: domain.IssuePriorityLow})
	require.NoError(t, err)

	now = now.Add(time.Second)
	second, err := f.svc.Create(ctx, f.userID, IssueCreateInput{Description: "second", Priority: domain.IssuePriorityLow})
	require.NoError(t, err)

	issues, err := f.svc.List(ctx, repository.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 2)
	require.Equal(t, second.ID, issues[0].ID)
	require.Equal(t, first.ID, issues[1].ID)
}
