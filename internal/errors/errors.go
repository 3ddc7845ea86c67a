package errors

import (
	"errors"
	"fmt"
)

// Common error types for the AllDayDJ client
var (
	// Token errors
	ErrMalformedToken     = errors.New("malformed token")
	ErrMissingExpiryClaim = errors.New("token missing exp claim")

	// Backend errors
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrRefreshRejected = errors.New("refresh token rejected")
	ErrNotAuthorised   = errors.New("not authorised")

	// Session errors
	ErrNotAuthenticated = errors.New("no authenticated session")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
