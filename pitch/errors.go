// SPDX-License-Identifier: EPL-2.0

package pitch

import "errors"

var ErrUnknownStrategy = errors.New("unknown pitch strategy")
