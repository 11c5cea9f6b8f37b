// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic signals and fixtures shared by tests.
package audiotest

import (
	"io"
	"math"
	"testing"

	"github.com/ik5/grains/audio"
)

// Gen produces the sample of channel ch at frame i.
type Gen func(i, ch int) float32

// Silence is all zeros.
func Silence(int, int) float32 { return 0 }

// Const returns v everywhere.
func Const(v float32) Gen {
	return func(int, int) float32 { return v }
}

// Ramp counts frames, offset by 1000 per channel, so every sample is unique
// and its origin can be read back from the value.
func Ramp(i, ch int) float32 { return float32(i + 1000*ch) }

// Sine is a full scale sine of freq Hz at the given rate, same on all channels.
func Sine(freq float64, rate int) Gen {
	return func(i, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	}
}

// Stream is an audio.Source of a fixed number of generated frames.
type Stream struct {
	rate     int
	channels int
	frames   int
	pos      int
	gen      Gen
}

var _ audio.Source = (*Stream)(nil)

func NewStream(rate, channels, frames int, gen Gen) *Stream {
	return &Stream{rate: rate, channels: channels, frames: frames, gen: gen}
}

func (s *Stream) SampleRate() int { return s.rate }
func (s *Stream) Channels() int   { return s.channels }
func (s *Stream) BufSize() int    { return 4096 }
func (s *Stream) Close() error    { return nil }

// Rewind starts the stream over.
func (s *Stream) Rewind() { s.pos = 0 }

func (s *Stream) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.gen(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

// Asset renders gen into a decoded asset.
func Asset(tb testing.TB, rate, channels, frames int, gen Gen) *audio.Asset {
	tb.Helper()

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
		for i := range frames {
			data[ch][i] = gen(i, ch)
		}
	}

	return Values(tb, rate, data...)
}

// Values builds an asset from literal per-channel samples.
func Values(tb testing.TB, rate int, channels ...[]float32) *audio.Asset {
	tb.Helper()

	asset, err := audio.NewAsset(rate, channels)
	if err != nil {
		tb.Fatalf("audiotest: building asset: %v", err)
	}
	return asset
}
