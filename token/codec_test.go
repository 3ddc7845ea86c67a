package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/steelegbr/alldaydj-sub000/internal/errors"
	"github.com/steelegbr/alldaydj-sub000/token"
)

const signingSecret = "test-secret"

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()

	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	require.NoError(t, err)
	return raw
}

func TestExpiryTimeDecodesExpClaim(t *testing.T) {
	// 2021-02-28T22:59:43Z
	raw := signedToken(t, jwtlib.MapClaims{"exp": 1614553183})

	expiry, err := token.ExpiryTime(raw)
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, 2, 28, 22, 59, 43, 0, time.UTC), expiry)
}

func TestExpiryTimeMalformedToken(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := token.ExpiryTime(raw)
		require.Error(t, err, "token %q should not decode", raw)
		require.ErrorIs(t, err, apperrors.ErrMalformedToken)
	}
}

func TestExpiryTimeMissingExpClaim(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"sub": "user-1"})

	_, err := token.ExpiryTime(raw)
	require.ErrorIs(t, err, apperrors.ErrMissingExpiryClaim)
}

func TestExpiryTimeIgnoresSignature(t *testing.T) {
	// The codec reads claims without verification; a token signed with an
	// unknown key still decodes.
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"exp": 1614553183}).
		SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	expiry, decodeErr := token.ExpiryTime(raw)
	require.NoError(t, decodeErr)
	require.Equal(t, int64(1614553183), expiry.Unix())
}
