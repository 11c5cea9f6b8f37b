// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/grains/loop"

// feed repeats a loop buffer forever as interleaved samples. The jump from
// the last frame back to the first is a hard cut. Only the render goroutine
// touches it.
type feed struct {
	rate     int
	channels int
	buf      *loop.Buffer
	pos      int
}

func (f *feed) SampleRate() int { return f.rate }
func (f *feed) Channels() int   { return f.channels }
func (f *feed) BufSize() int    { return scratchFrames * f.channels }
func (f *feed) Close() error    { return nil }

// set switches to buf at its first frame.
func (f *feed) set(buf *loop.Buffer) {
	f.buf = buf
	f.pos = 0
}

func (f *feed) ReadSamples(dst []float32) (int, error) {
	n := len(dst) - len(dst)%f.channels
	if f.buf.Empty() {
		clear(dst[:n])
		return n, nil
	}

	frames := f.buf.Frames()
	for i := 0; i < n; i += f.channels {
		for c := range f.channels {
			dst[i+c] = f.buf.Channel(c)[f.pos]
		}
		f.pos++
		if f.pos == frames {
			f.pos = 0
		}
	}

	return n, nil
}
