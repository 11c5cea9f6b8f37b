// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrInvalidFormat     = errors.New("sample rate and channel count must be positive")
	ErrChannelLength     = errors.New("channels differ in frame count")
	ErrNoProgress        = errors.New("source stopped producing samples without EOF")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAsset        = errors.New("decoding produced zero frames")
)

// DecodeError reports a failed load of an audio file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return "decode " + e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
