// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrAllocationFailed = errors.New("audio graph allocation failed")
	ErrNoAsset          = errors.New("no asset loaded")
	ErrFormatMismatch   = errors.New("buffer format differs from the loaded asset")
	ErrClosed           = errors.New("engine closed")
)

// Error reports which engine operation failed. The engine is left as it was
// before the call.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "engine " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
