package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testManager(accessTTL time.Duration) *Manager {
	return NewManager(Config{Key: "test-key", AccessTTL: accessTTL, RefreshTTL: time.Hour})
}

func TestManager_IssueAndParse(t *testing.T) {
	t.Parallel()
	m := testManager(time.Minute)

	access, refresh, err := m.IssuePair("lector", "user", "lector@example.com")
	require.NoError(t, err)
	require.NotEqual(t, access, refresh)

	claims, err := m.Parse(access, TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, "lector", claims.Profile.Username)
	require.Equal(t, "user", claims.Profile.Role)
	require.Equal(t, "lector@example.com", claims.Email)

	claims, err = m.Parse(refresh, TokenTypeRefresh)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestManager_Parse_WrongType(t *testing.T) {
	t.Parallel()
	m := testManager(time.Minute)

	access, refresh, err := m.IssuePair("lector", "user", "")
	require.NoError(t, err)

	_, err = m.Parse(access, TokenTypeRefresh)
	require.ErrorIs(t, err, ErrWrongType)
	_, err = m.Parse(refresh, TokenTypeAccess)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestManager_Parse_Expired(t *testing.T) {
	t.Parallel()
	m := testManager(-time.Minute)

	access, _, err := m.IssuePair("lector", "user", "")
	require.NoError(t, err)

	_, err = m.Parse(access, TokenTypeAccess)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_Parse_WrongKey(t *testing.T) {
	t.Parallel()
	access, _, err := testManager(time.Minute).IssuePair("lector", "user", "")
	require.NoError(t, err)

	other := NewManager(Config{Key: "another-key", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	_, err = other.Parse(access, TokenTypeAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	ctx := SetAuthContext(context.Background(), "lector", "user")
	require.Equal(t, "lector", UsernameFromContext(ctx))
	require.Equal(t, "user", RoleFromContext(ctx))

	require.Empty(t, UsernameFromContext(context.Background()))
	require.Empty(t, RoleFromContext(context.Background()))
}
