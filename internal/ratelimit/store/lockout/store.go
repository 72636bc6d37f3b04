// Package lockout stores sign-in failure counters. Stores are plain I/O; the
// window and lock rules live in the service.
package lockout

import "errors"

var errKeyRequired = errors.New("lockout key is required")
