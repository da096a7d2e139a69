package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/testutil"
)

func newTestJWT(clock *testutil.Clock) *JWT {
	return NewJWT(Options{
		Secret:     "secret",
		Issuer:     "evalca-test",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Now:        clock.Now,
	})
}

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	j := newTestJWT(clock)

	access, issued, err := j.GenerateAccessToken(42)
	require.NoError(t, err)
	require.Equal(t, int64(42), issued.UserID)
	require.Equal(t, model.TokenKindAccess, issued.Kind)
	require.NotEmpty(t, issued.ID)
	require.True(t, clock.Now().Add(30*time.Minute).Equal(issued.ExpiresAt))

	got, err := j.Parse(access, model.TokenKindAccess)
	require.NoError(t, err)
	require.Equal(t, issued.UserID, got.UserID)
	require.Equal(t, issued.Kind, got.Kind)
	require.Equal(t, issued.ID, got.ID)
	require.True(t, issued.ExpiresAt.Equal(got.ExpiresAt))
	require.True(t, issued.IssuedAt.Equal(got.IssuedAt))
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	j := newTestJWT(clock)

	refresh, issued, err := j.GenerateRefreshToken(7)
	require.NoError(t, err)
	require.True(t, clock.Now().Add(7*24*time.Hour).Equal(issued.ExpiresAt))

	got, err := j.Parse(refresh, model.TokenKindRefresh)
	require.NoError(t, err)
	require.Equal(t, int64(7), got.UserID)
	require.Equal(t, model.TokenKindRefresh, got.Kind)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j := newTestJWT(testutil.NewClock(time.Now()))

	access, _, err := j.GenerateAccessToken(1)
	require.NoError(t, err)
	_, err = j.Parse(access, model.TokenKindRefresh)
	require.ErrorIs(t, err, model.ErrTokenKind)

	refresh, _, err := j.GenerateRefreshToken(1)
	require.NoError(t, err)
	_, err = j.Parse(refresh, model.TokenKindAccess)
	require.ErrorIs(t, err, model.ErrTokenKind)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	j := newTestJWT(clock)

	access, _, err := j.GenerateAccessToken(1)
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	_, err = j.Parse(access, model.TokenKindAccess)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = j.Parse(access, model.TokenKindAccess)
	require.ErrorIs(t, err, model.ErrTokenExpired)

	claims, err := j.ParseIgnoringExpiry(access)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
}

func TestJWT_WrongSecret(t *testing.T) {
	clock := testutil.NewClock(time.Now())
	j := newTestJWT(clock)
	other := NewJWT(Options{Secret: "other", Now: clock.Now})

	access, _, err := other.GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = j.Parse(access, model.TokenKindAccess)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
	_, err = j.ParseIgnoringExpiry(access)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_RejectsOtherAlgorithms(t *testing.T) {
	j := newTestJWT(testutil.NewClock(time.Now()))

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: model.TokenKindAccess,
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.Parse(unsigned, model.TokenKindAccess)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_Garbage(t *testing.T) {
	j := newTestJWT(testutil.NewClock(time.Now()))

	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := j.Parse(tok, model.TokenKindAccess)
		require.ErrorIs(t, err, model.ErrTokenInvalid)
	}
}

func TestJWT_SameSecondTokensDiffer(t *testing.T) {
	j := newTestJWT(testutil.NewClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))

	first, _, err := j.GenerateAccessToken(1)
	require.NoError(t, err)
	second, _, err := j.GenerateAccessToken(1)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
