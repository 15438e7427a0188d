package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist or has been soft-deleted.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (malformed id,
// out-of-range paging, unknown sort field, missing required field).
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the record exists but the requester does
// not own it. It is deliberately distinct from ErrNotFound: callers can
// tell "doesn't exist" from "exists but not yours".
// Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrStoreUnavailable is returned when the backing store is unreachable,
// the connection pool is exhausted, or a store call times out. The
// operation is aborted whole — never a partial page or partial delete.
// Handlers map this to HTTP 503; callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")
