package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcms/internal/pkg/config"
	pkgErrors "tcms/pkg/errors"
)

func newIssuer(secret string, ttl int) *Issuer {
	return NewIssuer(&config.JWTConfig{Secret: secret, SessionExpire: ttl})
}

func TestIssueAndParse(t *testing.T) {
	issuer := newIssuer("secret", 60)

	token, claims, err := issuer.Issue("alice", "local", "tester")
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", parsed.Username)
	assert.Equal(t, "local", parsed.AuthType)
	assert.Equal(t, "tester", parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestParseExpired(t *testing.T) {
	issuer := newIssuer("secret", 60)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue("alice", "local", "tester")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgErrors.ErrTokenExpired))
}

func TestParseWrongSecret(t *testing.T) {
	token, _, err := newIssuer("secret", 60).Issue("alice", "local", "tester")
	require.NoError(t, err)

	_, err = newIssuer("other", 60).Parse(token)
	require.Error(t, err)
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
}

func TestParseGarbage(t *testing.T) {
	_, err := newIssuer("secret", 60).Parse("not-a-token")
	require.Error(t, err)
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
}
