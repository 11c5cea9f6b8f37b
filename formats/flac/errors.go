// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrInvalidStreamInfo   = errors.New("flac stream info has no channels or sample rate")
	ErrUnsupportedBitDepth = errors.New("unsupported flac bit depth")
	ErrChannelMismatch     = errors.New("flac frame has fewer subframes than channels")
)
