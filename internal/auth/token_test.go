package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, now *time.Time) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret", "HS256", DefaultTokenTTL)
	require.NoError(t, err)
	return ts.WithClock(func() time.Time { return *now })
}

func TestTokenService_IssueVerify(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := newTestTokens(t, &now)

	tok, err := ts.Issue("65f0c0ffee")
	require.NoError(t, err)

	id, err := ts.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee", id)
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := issued
	ts := newTestTokens(t, &now)

	tok, err := ts.Issue("u1")
	require.NoError(t, err)

	now = issued.Add(14 * time.Minute)
	id, err := ts.Verify(tok)
	require.NoError(t, err, "token must still be valid after 14 minutes")
	assert.Equal(t, "u1", id)

	now = issued.Add(14*time.Minute + 59*time.Second)
	_, err = ts.Verify(tok)
	require.NoError(t, err)

	now = issued.Add(16 * time.Minute)
	_, err = ts.Verify(tok)
	assert.True(t, errors.Is(err, apperr.ErrInvalidToken), "got %v", err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	now := time.Now()
	ts := newTestTokens(t, &now)
	tok, err := ts.Issue("u2")
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", "HS256", DefaultTokenTTL)
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_RejectsOtherAlgorithm(t *testing.T) {
	now := time.Now()
	ts := newTestTokens(t, &now)

	claims := Claims{
		UserID: "u3",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_RejectsMissingClaims(t *testing.T) {
	now := time.Now()
	ts := newTestTokens(t, &now)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u4"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ts.Verify(noExp)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ts.Verify(noID)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	now := time.Now()
	ts := newTestTokens(t, &now)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := ts.Verify(tok)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken, "token %q", tok)
	}
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService("s", "RS256", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenService("", "HS256", time.Minute)
	assert.Error(t, err)

	ts, err := NewTokenService("s", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, ts.TTL())
}
