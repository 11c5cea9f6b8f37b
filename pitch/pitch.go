// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/ik5/grains/audio"
)

// Shifter is an audio.Source that transposes the Source it wraps.
//
// SetPitch, Semitones and Reset may be called from any goroutine while
// another one reads; the new value applies from the next ReadSamples call.
// Flush must be called from the reading goroutine.
type Shifter interface {
	audio.Source

	SetPitch(semitones float64)
	Semitones() float64
	// Reset sets the transposition back to zero semitones.
	Reset()
	// Flush drops buffered history so audio read before it cannot leak
	// into what is read after it.
	Flush()
}

// Strategy picks the shifting algorithm.
type Strategy int

const (
	// TimePitch keeps the duration and tempo, only the pitch moves.
	TimePitch Strategy = iota
	// Varispeed changes the playback rate, so pitch and duration move together.
	Varispeed
)

func (s Strategy) String() string {
	switch s {
	case TimePitch:
		return "time"
	case Varispeed:
		return "varispeed"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the names printed by String plus a few aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "time", "timepitch", "time-pitch", "formant", "":
		return TimePitch, nil
	case "varispeed", "vari", "rate", "resample":
		return Varispeed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// New wraps src with a shifter of the given strategy at zero semitones.
func New(s Strategy, src audio.Source) (Shifter, error) {
	switch s {
	case TimePitch:
		return NewTimePitch(src), nil
	case Varispeed:
		return NewVarispeed(src), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
}

// MaxSemitones bounds the transposition the shifters apply.
const MaxSemitones = 48

// Clamp makes semitones safe for the render path: NaN becomes 0 and the
// rest is limited to ±MaxSemitones.
func Clamp(semitones float64) float64 {
	if math.IsNaN(semitones) {
		return 0
	}
	return max(-MaxSemitones, min(semitones, MaxSemitones))
}

// Rate is the playback rate factor for a transposition: 2^(semitones/12).
func Rate(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// Cents converts semitones to cents.
func Cents(semitones float64) float64 {
	return semitones * 100
}

// param is a float64 shared between the control and the audio goroutine.
type param struct {
	bits atomic.Uint64
}

func (p *param) load() float64   { return math.Float64frombits(p.bits.Load()) }
func (p *param) store(v float64) { p.bits.Store(math.Float64bits(v)) }
