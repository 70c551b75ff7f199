// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error. Storage failures are reported as ErrInternal.
var ErrInternal = errors.New("internal")
