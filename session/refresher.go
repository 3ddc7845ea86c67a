package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/steelegbr/alldaydj-sub000/store"
	"github.com/steelegbr/alldaydj-sub000/token"
)

// TokenRefresher exchanges a refresh token for a new access token at the
// backend. Implemented by the api package client.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// RefreshCoordinator issues a single refresh call against the backend and
// folds the result back into an authentication status. No retry or backoff:
// at most one backend call per invocation. On failure the periodic re-check
// re-attempts next cycle if a live refresh token still exists.
type RefreshCoordinator struct {
	api   TokenRefresher
	store store.Store
	log   zerolog.Logger
}

// NewRefreshCoordinator creates a coordinator calling the backend through api
// and persisting renewed access tokens into st.
func NewRefreshCoordinator(api TokenRefresher, st store.Store, log zerolog.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{
		api:   api,
		store: st,
		log:   log,
	}
}

// Refresh exchanges refreshToken for a new access token and invokes
// onComplete exactly once with the resulting status.
//
// On success the new access token is persisted (the refresh slot is left
// untouched) and the status is Authenticated with both expiries decoded. On
// any failure - network error, rejected token, undecodable response token -
// onComplete receives a bare Unauthenticated status and the store is left
// untouched.
func (rc *RefreshCoordinator) Refresh(ctx context.Context, refreshToken string, onComplete func(Status)) {
	accessToken, err := rc.api.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		rc.log.Warn().Err(err).Msg("access token refresh failed")
		onComplete(Status{Stage: StageUnauthenticated})
		return
	}

	accessExpiry, err := token.ExpiryTime(accessToken)
	if err != nil {
		rc.log.Warn().Err(err).Msg("refreshed access token failed to decode")
		onComplete(Status{Stage: StageUnauthenticated})
		return
	}

	refreshExpiry, err := token.ExpiryTime(refreshToken)
	if err != nil {
		rc.log.Warn().Err(err).Msg("refresh token failed to decode")
		onComplete(Status{Stage: StageUnauthenticated})
		return
	}

	if err := rc.store.Set(store.AccessTokenKey, accessToken); err != nil {
		rc.log.Warn().Err(err).Msg("failed to persist refreshed access token")
		onComplete(Status{Stage: StageUnauthenticated})
		return
	}

	onComplete(Status{
		Stage:              StageAuthenticated,
		AccessToken:        accessToken,
		AccessTokenExpiry:  accessExpiry,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshExpiry,
	})
}
