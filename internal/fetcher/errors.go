package fetcher

import "errors"

// Validation errors are returned before any network call.
var (
	ErrInvalidCredential   = errors.New("invalid API key")
	ErrInvalidMode         = errors.New("invalid choice")
	ErrInvalidQueryOptions = errors.New("invalid query options")
)

// Upstream errors abort the current fetch and revoke cache freshness.
var (
	ErrUpstreamRequestFailed     = errors.New("upstream request failed")
	ErrUpstreamMalformedResponse = errors.New("upstream response malformed")
)

// IsValidation reports whether err came from request validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidQueryOptions)
}
