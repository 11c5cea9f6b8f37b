// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so the Source reports two channels
// even for mono files (both channels then carry the same signal).
//
//	file, _ := os.Open("take1.mp3")
//	src, err := mp3.Decoder{}.Decode(file)
package mp3
