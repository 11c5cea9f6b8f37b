// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// genSource emits frames generated by fn until total frames have been read.
// It mirrors audiotest.Stream, which cannot be used here without a cycle.
type genSource struct {
	rate     int
	channels int
	total    int
	pos      int
	fn       func(frame, ch int) float32
}

func newGenSource(rate, channels, total int, fn func(frame, ch int) float32) *genSource {
	return &genSource{rate: rate, channels: channels, total: total, fn: fn}
}

func silentSource(rate, channels, total int) *genSource {
	return newGenSource(rate, channels, total, func(int, int) float32 { return 0 })
}

func (g *genSource) SampleRate() int { return g.rate }
func (g *genSource) Channels() int   { return g.channels }
func (g *genSource) BufSize() int    { return 4096 }
func (g *genSource) Close() error    { return nil }

func (g *genSource) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst)/g.channels, g.total-g.pos)
	for f := range n {
		for ch := range g.channels {
			dst[f*g.channels+ch] = g.fn(g.pos+f, ch)
		}
	}
	g.pos += n

	if g.pos >= g.total {
		return n * g.channels, io.EOF
	}
	return n * g.channels, nil
}
