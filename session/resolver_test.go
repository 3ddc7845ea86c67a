package session_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/steelegbr/alldaydj-sub000/session"
	"github.com/steelegbr/alldaydj-sub000/store"
	"github.com/steelegbr/alldaydj-sub000/store/storefakes"
)

// Fixed observation time used by the resolver tests: 2021-02-01T00:00:00Z.
var testNow = time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)

const (
	// 2021-02-28T22:59:43Z, a month after testNow
	liveExp = 1614553183
	// 2021-01-01T00:00:00Z, a month before testNow
	staleExp = 1609459200
)

func signedToken(t *testing.T, exp int64) string {
	t.Helper()

	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"exp": exp}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func newTestResolver(st store.Store) *session.Resolver {
	return session.NewResolver(st, zerolog.Nop(), session.WithResolverNowTime(func() time.Time {
		return testNow
	}))
}

func TestResolveNoRefreshToken(t *testing.T) {
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.AccessTokenKey, signedToken(t, liveExp)))

	status := newTestResolver(fs).Resolve()

	// An access token without a refresh token is never trusted.
	require.Equal(t, session.Status{Stage: session.StageUnauthenticated}, status)
}

func TestResolveExpiredRefreshToken(t *testing.T) {
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, signedToken(t, staleExp)))
	require.NoError(t, fs.Set(store.AccessTokenKey, signedToken(t, liveExp)))

	status := newTestResolver(fs).Resolve()
	require.Equal(t, session.Status{Stage: session.StageUnauthenticated}, status)
}

func TestResolveMalformedRefreshToken(t *testing.T) {
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, "not-a-token"))
	require.NoError(t, fs.Set(store.AccessTokenKey, signedToken(t, liveExp)))

	status := newTestResolver(fs).Resolve()
	require.Equal(t, session.Status{Stage: session.StageUnauthenticated}, status)
}

func TestResolveRefreshNeeded(t *testing.T) {
	refreshToken := signedToken(t, liveExp)
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, refreshToken))

	status := newTestResolver(fs).Resolve()

	require.Equal(t, session.Status{
		Stage:              session.StageAccessTokenRefreshNeeded,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: time.Date(2021, 2, 28, 22, 59, 43, 0, time.UTC),
	}, status)
}

func TestResolveExpiredAccessToken(t *testing.T) {
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, signedToken(t, liveExp)))
	require.NoError(t, fs.Set(store.AccessTokenKey, signedToken(t, staleExp)))

	status := newTestResolver(fs).Resolve()
	require.Equal(t, session.StageAccessTokenRefreshNeeded, status.Stage)
	require.Empty(t, status.AccessToken)
	require.True(t, status.AccessTokenExpiry.IsZero())
}

func TestResolveMalformedAccessToken(t *testing.T) {
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, signedToken(t, liveExp)))
	require.NoError(t, fs.Set(store.AccessTokenKey, "garbage"))

	status := newTestResolver(fs).Resolve()
	require.Equal(t, session.StageAccessTokenRefreshNeeded, status.Stage)
	require.Empty(t, status.AccessToken)
}

func TestResolveAuthenticated(t *testing.T) {
	refreshToken := signedToken(t, liveExp)
	accessToken := signedToken(t, liveExp-60)
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, refreshToken))
	require.NoError(t, fs.Set(store.AccessTokenKey, accessToken))

	status := newTestResolver(fs).Resolve()

	require.Equal(t, session.Status{
		Stage:              session.StageAuthenticated,
		AccessToken:        accessToken,
		AccessTokenExpiry:  time.Unix(liveExp-60, 0).UTC(),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: time.Unix(liveExp, 0).UTC(),
	}, status)
}

func TestResolveIsIdempotent(t *testing.T) {
	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, signedToken(t, liveExp)))
	require.NoError(t, fs.Set(store.AccessTokenKey, signedToken(t, liveExp)))

	resolver := newTestResolver(fs)
	first := resolver.Resolve()
	second := resolver.Resolve()
	require.True(t, first.Equal(second))
}
