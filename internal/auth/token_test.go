package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.Issue("jane@example.com", []string{"MANAGER", "PM"}, "PM", "sess-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Subject)
	assert.Equal(t, []string{"MANAGER", "PM"}, claims.Roles)
	assert.Equal(t, "PM", claims.ActiveRole)
	assert.Equal(t, "sess-123", claims.SessionID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	token, _, err := issuer.Issue("jane@example.com", []string{"PM"}, "PM", "sess-123")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, time.Hour, tm.TTL())
}
