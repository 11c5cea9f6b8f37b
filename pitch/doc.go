// SPDX-License-Identifier: EPL-2.0

// Package pitch transposes a stream by a number of semitones.
//
// Two strategies share the Shifter interface and are chosen once, when the
// shifter is built:
//
//   - TimePitch keeps duration. A pair of crossfaded read taps sweep a short
//     delay line, so a loop stays the same length at any pitch.
//   - Varispeed plays the source faster or slower by Rate(semitones) with
//     cubic interpolation. Cheaper, and the loop shortens as pitch rises.
//
// SetPitch only stores the new value atomically; the audio goroutine picks
// it up at the start of its next ReadSamples call.
package pitch
