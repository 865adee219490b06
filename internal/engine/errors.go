package engine

import (
	"errors"
	"strings"
)

// Error kinds surfaced by the engine. Callers distinguish "retry later"
// (ErrLookupFailed) from "this input or pool is unusable" (the rest).
var (
	// ErrInvalidParameter marks malformed caller input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidPool marks a pool identifier that does not resolve.
	ErrInvalidPool = errors.New("invalid pool")

	// ErrInvalidPoolAccount marks an account that exists but does not parse
	// as a bin pool of the expected shape.
	ErrInvalidPoolAccount = errors.New("invalid pool account")

	// ErrLookupFailed marks a transient failure of an underlying read.
	ErrLookupFailed = errors.New("lookup failed")
)

// rateLimitMarkers are the substrings RPC providers actually put in
// throttling responses.
var rateLimitMarkers = []string{
	"429",
	"rate limit",
	"too many requests",
	"limit exceeded",
}

// IsRateLimited reports whether err looks like a provider throttling
// response. These are the only failures worth retrying automatically.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
