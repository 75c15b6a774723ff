package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(AccessTTL)
	token, err := NewAccessToken("alice", "user", testSecret, exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "user", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	assert.True(t, ValidateAccess(token, testSecret))
}

func TestAccessTokenExpiredStillYieldsSubject(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken("alice", "user", testSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Subject)

	assert.False(t, ValidateAccess(token, testSecret))
}

func TestAccessTokenMalformed(t *testing.T) {
	t.Parallel()

	claims, err := AccessClaimsFromToken("not-a-token", testSecret)
	require.Error(t, err)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestAccessTokenWrongKey(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken("alice", "user", testSecret, time.Now().Add(AccessTTL))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, []byte("other-secret"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Nil(t, claims)
	assert.False(t, ValidateAccess(token, []byte("other-secret")))
}

func TestRefreshTokenClaims(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(RefreshTTL)
	token, err := NewRefreshToken("alice", testSecret, exp)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	assert.True(t, ValidateRefresh(token, testSecret))
	assert.False(t, ValidateRefresh(token, []byte("other-secret")))
}

func TestRefreshTokenExpired(t *testing.T) {
	t.Parallel()

	token, err := NewRefreshToken("alice", testSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(token, testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Nil(t, claims)
	assert.False(t, ValidateRefresh(token, testSecret))
}
