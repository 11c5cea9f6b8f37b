// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// maxIdleReads bounds how many (0, nil) reads ReadAsset tolerates in a row
// before deciding the source is stuck.
const maxIdleReads = 64

// Asset is a fully decoded, channel separated PCM buffer.
// It is never mutated after construction, so it may be read concurrently.
type Asset struct {
	sampleRate int
	channels   [][]float32
}

// NewAsset wraps per-channel sample slices. Every channel must hold the same
// number of frames. The slices are owned by the Asset afterwards.
func NewAsset(sampleRate int, channels [][]float32) (*Asset, error) {
	if sampleRate <= 0 || len(channels) == 0 {
		return nil, ErrInvalidFormat
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return nil, ErrChannelLength
		}
	}

	return &Asset{sampleRate: sampleRate, channels: channels}, nil
}

func (a *Asset) SampleRate() int  { return a.sampleRate }
func (a *Asset) NumChannels() int { return len(a.channels) }
func (a *Asset) Frames() int      { return len(a.channels[0]) }

// Channel returns the samples of channel i. Callers must not modify them.
func (a *Asset) Channel(i int) []float32 { return a.channels[i] }

// Duration in seconds.
func (a *Asset) Duration() float64 {
	return float64(a.Frames()) / float64(a.sampleRate)
}

// ReadAsset drains src and de-interleaves it into an Asset.
// A trailing incomplete frame is dropped. src is not closed.
func ReadAsset(src Source) (*Asset, error) {
	nch := src.Channels()
	if nch <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidFormat
	}

	size := src.BufSize()
	if size < nch {
		size = 4096
	}
	size -= size % nch

	channels := make([][]float32, nch)
	buf := make([]float32, size)
	ci := 0
	idle := 0

	for {
		n, err := src.ReadSamples(buf)
		for _, v := range buf[:n] {
			channels[ci] = append(channels[ci], v)
			ci++
			if ci == nch {
				ci = 0
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}

		if n == 0 {
			idle++
			if idle > maxIdleReads {
				return nil, ErrNoProgress
			}
			continue
		}
		idle = 0
	}

	// channels before ci received one sample more than the rest
	for c := range ci {
		channels[c] = channels[c][:len(channels[c])-1]
	}

	return &Asset{sampleRate: src.SampleRate(), channels: channels}, nil
}
