// Package token decodes the opaque bearer tokens handed out by the AllDayDJ
// backend far enough to read their expiry. Nothing here verifies a signature:
// the client is not a trust boundary, the server re-validates every request
// that carries one of these tokens.
package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/steelegbr/alldaydj-sub000/internal/errors"
)

// ExpiryTime extracts the numeric exp claim from a three-segment JWT and
// returns it as an absolute point in time. The token's signature is not
// checked. Tokens that fail to decode are reported as errors and treated as
// absent by callers.
func ExpiryTime(rawToken string) (time.Time, error) {
	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", errors.ErrMalformedToken, err)
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return time.Time{}, errors.ErrMalformedToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.ErrMissingExpiryClaim
	}

	// exp is seconds since epoch; the status record carries millisecond
	// precision absolute timestamps.
	return time.UnixMilli(int64(exp) * 1000).UTC(), nil
}
