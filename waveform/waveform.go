// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"math"

	"github.com/ik5/grains/loop"
)

// DefaultBuckets is the resolution of the editor's waveform strip.
const DefaultBuckets = 300

// Buffer is the audio a profile is computed from. Both *audio.Asset and
// *loop.Buffer satisfy it.
type Buffer interface {
	NumChannels() int
	Frames() int
	Channel(i int) []float32
}

// Profile holds normalized magnitudes in [0,1], one per bucket.
type Profile []float32

// Analyze reduces channel 0 of buf to n RMS magnitudes normalized so the
// loudest bucket is 1. A buffer of fewer than n frames gives one |sample|
// per frame instead, so the profile can be shorter than n. Silence stays
// all zeros. NaN and infinite samples are skipped.
func Analyze(buf Buffer, n int) (Profile, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, n)
	}

	total := buf.Frames()
	if total == 0 || buf.NumChannels() == 0 {
		return Profile{}, nil
	}

	samples := buf.Channel(0)[:total]
	per := total / n

	var p Profile
	if per == 0 {
		p = make(Profile, total)
		for i, v := range samples {
			if finite(v) {
				p[i] = float32(math.Abs(float64(v)))
			}
		}
	} else {
		p = make(Profile, n)
		for i := range p {
			start := i * per
			p[i] = rms(samples[start : start+min(per, total-start)])
		}
	}

	p.normalize()

	return p, nil
}

func rms(s []float32) float32 {
	var sum float64
	var n int
	for _, v := range s {
		if !finite(v) {
			continue
		}
		sum += float64(v) * float64(v)
		n++
	}
	if n == 0 {
		return 0
	}
	return float32(math.Sqrt(sum / float64(n)))
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p Profile) normalize() {
	peak := p.Max()
	if peak == 0 {
		return
	}
	for i := range p {
		p[i] /= peak
	}
}

// Max is the largest finite value, 0 for an empty profile.
func (p Profile) Max() float32 {
	var peak float32
	for _, v := range p {
		if finite(v) {
			peak = max(peak, v)
		}
	}
	return peak
}

// BucketTime is the time in seconds at which bucket i starts when the
// profile spans duration seconds.
func (p Profile) BucketTime(i int, duration float64) float64 {
	if len(p) == 0 {
		return 0
	}
	return float64(i) / float64(len(p)) * duration
}

// InLoop reports whether bucket i lies inside region, bounds included.
// Buckets outside are drawn dimmed.
func (p Profile) InLoop(i int, region loop.Region, duration float64) bool {
	t := p.BucketTime(i, duration)
	return t >= region.Start && t <= region.End
}
