// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrFormatLocked = errors.New("output device format cannot change once opened")
	ErrNotOpen      = errors.New("output not opened")
)
