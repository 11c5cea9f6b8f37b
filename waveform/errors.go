// SPDX-License-Identifier: EPL-2.0

package waveform

import "errors"

var ErrInvalidTarget = errors.New("waveform bucket count must be positive")
