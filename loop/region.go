// SPDX-License-Identifier: EPL-2.0

package loop

// MinGap is the smallest distance, in seconds, the Region mutators keep
// between Start and End.
const MinGap = 0.01

// Region is the time window played repeatedly. Start < End is maintained by
// SetStart and SetEnd only; Extract copes with any values.
type Region struct {
	Start    float64
	End      float64
	Reversed bool
}

// FullRegion covers a whole asset of the given duration.
func FullRegion(duration float64) Region {
	return Region{Start: 0, End: duration}
}

// SetStart moves the start marker, staying at least MinGap before End and
// never below zero.
func (r *Region) SetStart(t float64) {
	r.Start = max(0, min(t, r.End-MinGap))
}

// SetEnd moves the end marker, staying at least MinGap after Start and never
// past duration.
func (r *Region) SetEnd(t, duration float64) {
	r.End = min(duration, max(t, r.Start+MinGap))
}

// Length in seconds. Negative when the bounds are inverted.
func (r Region) Length() float64 { return r.End - r.Start }
