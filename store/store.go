// Package store persists the session's token strings between process runs,
// the client-side equivalent of the browser's origin-scoped local storage.
package store

// Slot names used by the session packages. The two token slots are written
// independently - a crash between the two Set calls can leave one populated
// without the other, which the resolver tolerates by validating each token's
// expiry on its own.
const (
	RefreshTokenKey = "refreshToken"
	AccessTokenKey  = "accessToken"
	TenancyKey      = "tenancy"
)

// Store is a durable set of independent opaque string slots.
type Store interface {
	// Get returns the value for a slot and whether the slot is populated.
	Get(name string) (string, bool)
	// Set durably persists a slot value.
	Set(name, value string) error
	// Remove durably clears a slot.
	Remove(name string) error
}
