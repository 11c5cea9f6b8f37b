// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/utils"
)

const (
	// grainSeconds is the length of one sweep of a read tap.
	grainSeconds = 0.05
	minGrain     = 64
	gainSteps    = 1024
	// settleRate is how fast, in sweeps per grain, the taps return to a
	// rest point once the pitch is back at zero.
	settleRate = 0.05
)

// TimePitchShifter transposes without changing duration. Each channel feeds
// a delay line read by two taps half a grain apart; the taps drift at
// 1 - Rate(semitones) frames per frame, which resamples what they read, and
// a Hann crossfade hides each tap while it jumps back. One frame in gives
// one frame out, so loop timing is unaffected by the pitch.
type TimePitchShifter struct {
	src      audio.Source
	channels int
	semi     param

	grain int         // frames per tap sweep
	lines [][]float32 // per channel delay lines, 2*grain long
	gain  []float32   // Hann window over one sweep
	write int
	phase float64 // tap 1 position within the sweep, [0,1)
}

// At rest points one tap has gain 1 at a delay of half a grain and the
// other is silent, so the output equals passThrough.
func atRest(phase float64) bool { return phase == 0 || phase == 0.5 }

var _ Shifter = (*TimePitchShifter)(nil)

func NewTimePitch(src audio.Source) *TimePitchShifter {
	channels := src.Channels()
	grain := max(minGrain, int(math.Round(float64(src.SampleRate())*grainSeconds)))
	// even, so the rest delay grain/2 falls on a whole frame
	grain += grain % 2

	t := &TimePitchShifter{
		src:      src,
		channels: channels,
		grain:    grain,
		lines:    make([][]float32, channels),
		gain:     utils.HannWindow(gainSteps),
	}
	for c := range t.lines {
		t.lines[c] = make([]float32, 2*grain)
	}

	return t
}

func (t *TimePitchShifter) SampleRate() int { return t.src.SampleRate() }
func (t *TimePitchShifter) Channels() int   { return t.channels }
func (t *TimePitchShifter) BufSize() int    { return t.src.BufSize() }

func (t *TimePitchShifter) Close() error {
	if err := t.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (t *TimePitchShifter) SetPitch(semitones float64) { t.semi.store(Clamp(semitones)) }
func (t *TimePitchShifter) Semitones() float64         { return t.semi.load() }
func (t *TimePitchShifter) Reset()                     { t.semi.store(0) }

// Cents is the transposition in cents.
func (t *TimePitchShifter) Cents() float64 { return Cents(t.semi.load()) }

// Latency is the delay, in frames, the taps add at zero semitones.
func (t *TimePitchShifter) Latency() int { return t.grain / 2 }

func (t *TimePitchShifter) Flush() {
	for _, line := range t.lines {
		clear(line)
	}
	t.write = 0
	t.phase = 0
}

// ReadSamples reads len(dst) values from the source and shifts them in place.
func (t *TimePitchShifter) ReadSamples(dst []float32) (int, error) {
	if len(dst)%t.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n, err := t.src.ReadSamples(dst)
	n -= n % t.channels
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w", err)
	}

	cents := Cents(t.semi.load())
	settling := cents == 0
	if settling && atRest(t.phase) {
		t.passThrough(dst[:n])
		return n, err
	}

	step := (1 - Rate(cents/100)) / float64(t.grain)
	if settling {
		step = settleRate / float64(t.grain)
	}
	size := len(t.lines[0])
	g := float64(t.grain)

	for f := 0; f < n; f += t.channels {
		p1 := t.phase
		p2 := wrap(p1 + 0.5)

		g1 := t.gain[int(p1*gainSteps)]
		g2 := 1 - g1
		d1 := p1 * g
		d2 := p2 * g

		for c := range t.channels {
			line := t.lines[c]
			line[t.write] = dst[f+c]
			dst[f+c] = g1*tap(line, t.write, d1, size) + g2*tap(line, t.write, d2, size)
		}

		t.write++
		if t.write == size {
			t.write = 0
		}

		if settling {
			t.phase = settle(t.phase, step)
		} else {
			t.phase = wrap(t.phase + step)
		}
	}

	return n, err
}

// passThrough keeps the delay lines fed while the taps sit still, so the
// output is the input delayed by Latency frames, the same as the shifting
// path produces at zero semitones.
func (t *TimePitchShifter) passThrough(buf []float32) {
	size := len(t.lines[0])
	lag := t.Latency()

	for f := 0; f < len(buf); f += t.channels {
		for c := range t.channels {
			line := t.lines[c]
			line[t.write] = buf[f+c]
			buf[f+c] = line[(t.write-lag+size)%size]
		}

		t.write++
		if t.write == size {
			t.write = 0
		}
	}
}

// tap reads line at delay frames behind w with linear interpolation.
func tap(line []float32, w int, delay float64, size int) float32 {
	pos := float64(w) - delay
	if pos < 0 {
		pos += float64(size)
	}

	i := int(pos)
	if i >= size {
		i -= size
	}
	frac := float32(pos - float64(i))
	j := i + 1
	if j == size {
		j = 0
	}

	return utils.Lerp(line[i], line[j], frac)
}

// settle moves p by at most step towards the nearest rest point, landing
// on it exactly.
func settle(p, step float64) float64 {
	target := math.Round(2*p) / 2
	switch {
	case math.Abs(target-p) <= step:
		p = target
	case target > p:
		p += step
	default:
		p -= step
	}
	return wrap(p)
}

// wrap folds p into [0,1).
func wrap(p float64) float64 {
	p -= math.Floor(p)
	if p >= 1 {
		return 0
	}
	return p
}
