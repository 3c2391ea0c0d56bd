package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/store"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

func newAuthService() *AuthService {
	users := store.NewMemoryUserRepository()
	tokens := auth.NewTokenManager("test-secret", 0)
	return NewAuthService(users, tokens, 4)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, status, domainErr.HTTPStatus)
}

func TestSignupRequiresIdentifier(t *testing.T) {
	svc := newAuthService()

	_, _, err := svc.Signup(context.Background(), SignupInput{Password: "pw", Role: domain.RoleUser})

	requireStatus(t, err, http.StatusBadRequest)
}

func TestSignupRequiresPasswordAndRole(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Role: domain.RoleUser})
	requireStatus(t, err, http.StatusBadRequest)

	_, _, err = svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "pw"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSignupThenLoginResolvesSameUser(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	created, signupToken, err := svc.Signup(ctx, SignupInput{
		Email:    "citizen@example.com",
		Password: "hunter2",
		Role:     domain.RoleUser,
		Language: "en",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signupToken)
	require.NotEqual(t, "hunter2", created.PasswordHash)

	fromSignup, err := svc.Resolve(ctx, signupToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, fromSignup.ID)

	loggedIn, loginToken, err := svc.Login(ctx, "citizen@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, created.ID, loggedIn.ID)

	fromLogin, err := svc.Resolve(ctx, loginToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, fromLogin.ID)
}

func TestLoginByNationalID(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	created, _, err := svc.Signup(ctx, SignupInput{
		NationalID: "9001011234567",
		Password:   "pw",
		Role:       domain.RoleAdmin,
	})
	require.NoError(t, err)

	user, _, err := svc.Login(ctx, "9001011234567", "pw")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.Equal(t, domain.RoleAdmin, user.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "right", Role: domain.RoleUser})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong")
	requireStatus(t, err, http.StatusUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "right")
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestSignupDuplicateIdentifier(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "pw", Role: domain.RoleUser})
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "pw2", Role: domain.RoleUser})
	require.Error(t, err)
}

func TestResolveRejectsMalformedToken(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Resolve(context.Background(), "not-a-token")

	requireStatus(t, err, http.StatusUnauthorized)
}
