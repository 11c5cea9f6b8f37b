// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Big-endian integer PCM at 8, 16, 24 or 32 bits is supported, mono or
// multichannel. The decoder needs random access; a plain io.Reader is
// buffered in memory first.
//
//	file, _ := os.Open("take1.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not FORM/AIFF
//	}
package aiff
