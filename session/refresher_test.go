package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/steelegbr/alldaydj-sub000/session"
	"github.com/steelegbr/alldaydj-sub000/store"
	"github.com/steelegbr/alldaydj-sub000/store/storefakes"
)

var _ session.TokenRefresher = (*fakeTokenAPI)(nil)

// fakeTokenAPI stands in for the backend refresh endpoint.
type fakeTokenAPI struct {
	accessToken string
	err         error

	// block, when non-nil, holds every call until the channel is closed.
	block chan struct{}

	lock  sync.Mutex
	calls int
}

func (f *fakeTokenAPI) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	f.lock.Lock()
	f.calls++
	f.lock.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.accessToken, nil
}

func (f *fakeTokenAPI) callCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

func TestRefreshSuccess(t *testing.T) {
	refreshToken := signedToken(t, liveExp)
	newAccessToken := signedToken(t, liveExp-60)

	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, refreshToken))

	api := &fakeTokenAPI{accessToken: newAccessToken}
	coordinator := session.NewRefreshCoordinator(api, fs, zerolog.Nop())

	var results []session.Status
	coordinator.Refresh(context.Background(), refreshToken, func(status session.Status) {
		results = append(results, status)
	})

	require.Len(t, results, 1)
	require.Equal(t, session.Status{
		Stage:              session.StageAuthenticated,
		AccessToken:        newAccessToken,
		AccessTokenExpiry:  time.Unix(liveExp-60, 0).UTC(),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: time.Unix(liveExp, 0).UTC(),
	}, results[0])

	// The new access token is persisted; the refresh slot is unchanged.
	persisted, ok := fs.Get(store.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, newAccessToken, persisted)
	persisted, ok = fs.Get(store.RefreshTokenKey)
	require.True(t, ok)
	require.Equal(t, refreshToken, persisted)
}

func TestRefreshBackendRejection(t *testing.T) {
	refreshToken := signedToken(t, liveExp)

	fs := storefakes.NewFakeStore()
	require.NoError(t, fs.Set(store.RefreshTokenKey, refreshToken))

	api := &fakeTokenAPI{err: context.DeadlineExceeded}
	coordinator := session.NewRefreshCoordinator(api, fs, zerolog.Nop())

	var results []session.Status
	coordinator.Refresh(context.Background(), refreshToken, func(status session.Status) {
		results = append(results, status)
	})

	require.Len(t, results, 1)
	require.Equal(t, session.Status{Stage: session.StageUnauthenticated}, results[0])

	// The store is left untouched.
	_, ok := fs.Get(store.AccessTokenKey)
	require.False(t, ok)
	require.Equal(t, 1, api.callCount())
}

func TestRefreshUndecodableNewToken(t *testing.T) {
	refreshToken := signedToken(t, liveExp)

	fs := storefakes.NewFakeStore()
	api := &fakeTokenAPI{accessToken: "not-a-token"}
	coordinator := session.NewRefreshCoordinator(api, fs, zerolog.Nop())

	var results []session.Status
	coordinator.Refresh(context.Background(), refreshToken, func(status session.Status) {
		results = append(results, status)
	})

	require.Len(t, results, 1)
	require.Equal(t, session.Status{Stage: session.StageUnauthenticated}, results[0])
	_, ok := fs.Get(store.AccessTokenKey)
	require.False(t, ok)
}

func TestRefreshStoreFailure(t *testing.T) {
	refreshToken := signedToken(t, liveExp)

	fs := storefakes.NewFakeStore()
	fs.SetErr = context.DeadlineExceeded
	api := &fakeTokenAPI{accessToken: signedToken(t, liveExp-60)}
	coordinator := session.NewRefreshCoordinator(api, fs, zerolog.Nop())

	var results []session.Status
	coordinator.Refresh(context.Background(), refreshToken, func(status session.Status) {
		results = append(results, status)
	})

	require.Len(t, results, 1)
	require.Equal(t, session.Status{Stage: session.StageUnauthenticated}, results[0])
}
