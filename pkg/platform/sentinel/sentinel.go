package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain error codes.
//
//   - ErrNotFound: no record with the given identity exists
//   - ErrConflict: a record with the same identity already exists
//   - ErrUnavailable: the backing store could not produce a snapshot
//   - ErrInvalidState: the operation is not valid for the given input or state
//
// Validation failures belong in pkg/domain-errors, not here.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
