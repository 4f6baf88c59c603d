// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist or is not
// visible to the calling owner.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a concurrent modification conflict (optimistic locking).
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates invalid input, including self or circular parent
// references on the goal hierarchy.
var ErrValidation = errors.New("validation failed")

// ErrPrecondition indicates an operation was invoked against an entity in a
// state that cannot satisfy it, e.g. required-velocity on a goal without a
// target date.
var ErrPrecondition = errors.New("precondition failed")

// ErrUpstream indicates the AI suggestion service was unreachable or returned
// output that failed schema validation. Calls are not retried internally.
var ErrUpstream = errors.New("upstream service error")
