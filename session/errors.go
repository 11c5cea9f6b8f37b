// SPDX-License-Identifier: EPL-2.0

package session

import "errors"

var (
	ErrNoAsset = errors.New("no audio loaded")
	ErrBusy    = errors.New("decoder busy")
	// ErrSuperseded is returned by a Load that finished after a newer one started.
	ErrSuperseded = errors.New("load superseded by a newer one")
)
