// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/utils"
)

// filterAlpha is the coefficient of the one-pole low-pass applied to input
// frames while reading faster than real time.
const filterAlpha = 0.5

// VarispeedShifter reads its source at Rate(semitones) frames per output
// frame using Catmull-Rom interpolation. Interleaved, any channel count.
type VarispeedShifter struct {
	src      audio.Source
	channels int
	semi     param

	// 4 frame window for the spline:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool

	// fractional position between frames[1] and frames[2]
	pos float64

	srcBuf []float32
	eof    bool

	filterState []float32
}

var _ Shifter = (*VarispeedShifter)(nil)

func NewVarispeed(src audio.Source) *VarispeedShifter {
	channels := src.Channels()

	v := &VarispeedShifter{
		src:         src,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		filterState: make([]float32, channels),
	}
	for i := range v.frames {
		v.frames[i] = make([]float32, channels)
	}

	return v
}

func (v *VarispeedShifter) SampleRate() int { return v.src.SampleRate() }
func (v *VarispeedShifter) Channels() int   { return v.channels }
func (v *VarispeedShifter) BufSize() int    { return v.src.BufSize() }

func (v *VarispeedShifter) Close() error {
	if err := v.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (v *VarispeedShifter) SetPitch(semitones float64) { v.semi.store(Clamp(semitones)) }
func (v *VarispeedShifter) Semitones() float64         { return v.semi.load() }
func (v *VarispeedShifter) Reset()                     { v.semi.store(0) }

func (v *VarispeedShifter) Flush() {
	for i := range v.frames {
		clear(v.frames[i])
		v.hasFrame[i] = false
	}
	clear(v.filterState)
	v.pos = 0
	v.eof = false
}

// readFrame pulls one frame from the source into dst.
func (v *VarispeedShifter) readFrame(dst []float32, filter bool) (bool, error) {
	n, err := v.src.ReadSamples(v.srcBuf)
	got := n == v.channels
	if got {
		copy(dst, v.srcBuf)

		if filter {
			for c := range v.channels {
				dst[c] = filterAlpha*dst[c] + (1-filterAlpha)*v.filterState[c]
				v.filterState[c] = dst[c]
			}
		} else {
			copy(v.filterState, dst)
		}
	}

	if errors.Is(err, io.EOF) {
		v.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("%w", err)
	}

	return got, nil
}

// prime fills the spline window. The first frame doubles as its own
// predecessor.
func (v *VarispeedShifter) prime(filter bool) error {
	for i := 1; i < len(v.frames); i++ {
		v.hasFrame[i] = false
		if v.eof {
			continue
		}

		got, err := v.readFrame(v.frames[i], filter)
		if err != nil {
			return err
		}
		v.hasFrame[i] = got
	}

	if !v.hasFrame[1] {
		return io.EOF
	}
	copy(v.frames[0], v.frames[1])
	v.hasFrame[0] = false

	return nil
}

// advance shifts the window by one frame.
func (v *VarispeedShifter) advance(filter bool) error {
	if !v.hasFrame[2] {
		return io.EOF
	}

	f0 := v.frames[0]
	copy(v.frames[:3], v.frames[1:])
	v.frames[3] = f0
	copy(v.hasFrame[:3], v.hasFrame[1:])

	v.hasFrame[3] = false
	if !v.eof {
		got, err := v.readFrame(v.frames[3], filter)
		if err != nil {
			return err
		}
		v.hasFrame[3] = got
	}

	return nil
}

// ReadSamples fills dst, whose length must be a multiple of Channels.
func (v *VarispeedShifter) ReadSamples(dst []float32) (int, error) {
	if len(dst)%v.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	ratio := Rate(v.semi.load())
	filter := ratio > 1

	if !v.hasFrame[1] {
		if err := v.prime(filter); err != nil {
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / v.channels

	for written < frames {
		for v.pos >= 1 {
			if err := v.advance(filter); err != nil {
				if errors.Is(err, io.EOF) {
					if written == 0 {
						return 0, io.EOF
					}
					return written * v.channels, io.EOF
				}
				return written * v.channels, err
			}
			v.pos--
		}

		x := float32(v.pos)
		out := dst[written*v.channels : (written+1)*v.channels]
		for c := range out {
			// missing neighbours repeat the nearest known frame
			y1 := v.frames[1][c]
			y0, y2 := y1, y1
			if v.hasFrame[0] {
				y0 = v.frames[0][c]
			}
			if v.hasFrame[2] {
				y2 = v.frames[2][c]
			}
			y3 := y2
			if v.hasFrame[3] {
				y3 = v.frames[3][c]
			}

			out[c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		v.pos += ratio
	}

	return written * v.channels, nil
}
