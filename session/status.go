// Package session tracks the login/refresh/logout lifecycle of an AllDayDJ
// client session from the two locally persisted tokens. The Controller owns
// the current AuthenticationStatus, re-resolves it on a fixed interval and
// dispatches at most one in-flight refresh call when the access token needs
// renewing. Consumers receive read-only snapshots and may replace the status
// through the controller's mutator.
package session

import "time"

// Stage is the authentication state machine's current discrete state.
type Stage string

const (
	// StageUnauthenticated means no usable refresh token exists; downstream
	// consumers should send the user to the login flow.
	StageUnauthenticated Stage = "Unauthenticated"

	// StageAccessTokenRefreshNeeded means a live refresh token exists but no
	// live access token; a refresh call should be dispatched.
	StageAccessTokenRefreshNeeded Stage = "AccessTokenRefreshNeeded"

	// StageRefreshingAccessToken means a refresh call is in flight for the
	// session's refresh token.
	StageRefreshingAccessToken Stage = "RefreshingAccessToken"

	// StageAuthenticated means both tokens are live; requests may carry the
	// access token.
	StageAuthenticated Stage = "Authenticated"
)

// Status is an immutable snapshot of the session. Instances are replaced
// wholesale on every change, never mutated in place.
//
// AccessToken and its expiry are set iff Stage is StageAuthenticated.
// RefreshToken and its expiry are set whenever a decoded, non-expired refresh
// token exists in storage, regardless of stage. Expiries are the decoded exp
// claim of the corresponding token as an absolute point in time.
type Status struct {
	Stage              Stage
	AccessToken        string
	RefreshToken       string
	AccessTokenExpiry  time.Time
	RefreshTokenExpiry time.Time

	// Tenant identifies the active tenancy. It is set by the tenancy
	// selection flow, not by token resolution, and is carried across
	// resolver-driven replacements.
	Tenant string
}

// Equal reports whether two status records carry identical field values.
func (s Status) Equal(other Status) bool {
	return s == other
}

// WithTenant returns a copy of the status with the active tenancy replaced.
func (s Status) WithTenant(tenant string) Status {
	s.Tenant = tenant
	return s
}
