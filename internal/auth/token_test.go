package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/civic-report/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	user := &domain.User{ID: "user-1", Role: domain.RoleUser}

	token, err := tm.IssueToken(user)
	require.NoError(t, err)

	subject, err := tm.ResolveToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", subject)
}

func TestTokenWithoutExpiry(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	token, err := tm.IssueToken(&domain.User{ID: "user-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	subject, err := tm.ResolveToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", subject)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, err := issuer.IssueToken(&domain.User{ID: "user-1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = verifier.ResolveToken(token)
	require.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	_, err := tm.ResolveToken("garbage")
	require.Error(t, err)
}
