package session

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/steelegbr/alldaydj-sub000/store"
	"github.com/steelegbr/alldaydj-sub000/token"
)

// Resolver computes the current authentication status from persisted tokens.
// Resolution is a pure read: no side effects beyond logging.
type Resolver struct {
	store   store.Store
	log     zerolog.Logger
	nowTime func() time.Time
}

// ResolverOption modifies a Resolver instance.
type ResolverOption func(*Resolver)

// WithResolverNowTime sets the now time function (primarily for testing).
func WithResolverNowTime(nowFunc func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.nowTime = nowFunc
	}
}

// NewResolver creates a resolver reading from the given store.
func NewResolver(st store.Store, log zerolog.Logger, options ...ResolverOption) *Resolver {
	resolver := &Resolver{
		store:   st,
		log:     log,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(resolver)
	}
	return resolver
}

// Resolve assembles a fresh status record from the store. An access token is
// never trusted without a live refresh token, so a missing, malformed or
// expired refresh token short-circuits to Unauthenticated without looking at
// the access slot. Decode failures downgrade the stage and are never fatal.
//
// Expiry comparisons use wall-clock now at call time; a token valid at decode
// time may be stale by the time it is used. The server re-validates every
// request, the client-side check exists for UX only.
func (r *Resolver) Resolve() Status {
	refreshToken, ok := r.store.Get(store.RefreshTokenKey)
	if !ok || refreshToken == "" {
		return Status{Stage: StageUnauthenticated}
	}

	refreshExpiry, err := token.ExpiryTime(refreshToken)
	if err != nil {
		r.log.Debug().Err(err).Msg("stored refresh token failed to decode")
		return Status{Stage: StageUnauthenticated}
	}

	now := r.nowTime()
	if !refreshExpiry.After(now) {
		return Status{Stage: StageUnauthenticated}
	}

	status := Status{
		Stage:              StageAccessTokenRefreshNeeded,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshExpiry,
	}

	accessToken, ok := r.store.Get(store.AccessTokenKey)
	if !ok || accessToken == "" {
		return status
	}

	accessExpiry, err := token.ExpiryTime(accessToken)
	if err != nil {
		r.log.Debug().Err(err).Msg("stored access token failed to decode")
		return status
	}
	if !accessExpiry.After(now) {
		return status
	}

	status.Stage = StageAuthenticated
	status.AccessToken = accessToken
	status.AccessTokenExpiry = accessExpiry
	return status
}
