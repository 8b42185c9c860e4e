package auth

import "errors"

// Rejections returned by Manager.Authenticate. Exactly one of these (or a
// successful Result) comes back from every call. ErrInternal marks server
// faults; callers must not leak the wrapped detail to clients.
var (
	ErrMissingToken            = errors.New("access denied: no token provided")
	ErrInvalidToken            = errors.New("invalid token")
	ErrRefreshRequired         = errors.New("refresh token is required")
	ErrRefreshInvalidOrExpired = errors.New("invalid or expired refresh token")
	ErrInternal                = errors.New("could not authenticate request")
)

// errExpired is only used between the token parser and the manager.
var errExpired = errors.New("token expired")

// Code returns the machine-readable code for an authentication error.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrRefreshRequired):
		return "refresh_required"
	case errors.Is(err, ErrRefreshInvalidOrExpired):
		return "refresh_invalid"
	default:
		return "internal_error"
	}
}

// Retryable reports whether the client can recover by resending the request
// with a refresh token, as opposed to logging in again.
func Retryable(err error) bool {
	return errors.Is(err, ErrRefreshRequired)
}
