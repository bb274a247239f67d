package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func issue(t *testing.T, now time.Time) TokenPair {
	t.Helper()
	pair, err := IssueTokenPair(secret, 42, "jamie@example.com", RoleMember, time.Hour, 24*time.Hour, now)
	require.NoError(t, err)
	return pair
}

func TestTokenPair_RoundTrip(t *testing.T) {
	pair := issue(t, time.Now())

	claims, err := ParseAccessToken(secret, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jamie@example.com", claims.Email)
	assert.Equal(t, RoleMember, claims.Role)

	userID, err := ParseRefreshToken(secret, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	pair := issue(t, time.Now())

	_, err := ParseAccessToken(secret, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRefreshToken_RejectsAccessToken(t *testing.T) {
	pair := issue(t, time.Now())

	_, err := ParseRefreshToken(secret, pair.AccessToken)
	require.ErrorIs(t, err, ErrNotRefresh)
}

func TestParse_WrongSecret(t *testing.T) {
	pair := issue(t, time.Now())

	_, err := ParseAccessToken([]byte("other-secret"), pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	pair := issue(t, time.Now().Add(-48*time.Hour))

	_, err := ParseAccessToken(secret, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseRefreshToken(secret, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := ParseAccessToken(secret, "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.True(t, RoleLibrarian.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestActor(t *testing.T) {
	assert.True(t, Actor{}.Anonymous())
	assert.False(t, Actor{ID: 1, Role: RoleMember}.Anonymous())
	assert.True(t, Actor{ID: 1, Role: RoleMember}.IsMember())
	assert.False(t, Actor{ID: 1, Role: RoleMember}.IsLibrarian())
	assert.True(t, Actor{ID: 2, Role: RoleLibrarian}.IsLibrarian())
}
