// SPDX-License-Identifier: EPL-2.0

package loop

import "errors"

var ErrAllocationFailed = errors.New("loop buffer exceeds the allocation limit")
