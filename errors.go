package headstart

import (
	"errors"
	"strings"
)

// ErrRefreshInFlight is returned when a refresh is already running.
var ErrRefreshInFlight = errors.New("token refresh already in flight")

// ErrRefreshCoolingDown is returned while refresh attempts are
// suppressed after a recent failure.
var ErrRefreshCoolingDown = errors.New("token refresh cooling down")

// ErrNoRefreshToken is returned when a refresh is requested but no
// refresh token was retained.
var ErrNoRefreshToken = errors.New("no refresh token available")

// ErrNotLoggedIn is returned by operations that require an
// authenticated, non-anonymous session.
var ErrNotLoggedIn = errors.New("no authenticated session")

// ErrBuyerIDMissing is returned when an operation needs a buyer ID
// and none was supplied.
var ErrBuyerIDMissing = errors.New("buyer id is required")

// ErrBuyerRequired is returned when a buyer payload is absent.
var ErrBuyerRequired = errors.New("buyer record is required")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired") ||
		strings.Contains(err.Error(), "AccessTokenExpired")
}
