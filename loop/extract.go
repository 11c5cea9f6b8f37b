// SPDX-License-Identifier: EPL-2.0

package loop

import (
	"fmt"
	"math"
)

// Asset is the decoded audio a loop is cut from. *audio.Asset satisfies it.
type Asset interface {
	SampleRate() int
	NumChannels() int
	Frames() int
	Channel(i int) []float32
}

// Buffer is an immutable, independently owned copy of one loop region.
type Buffer struct {
	sampleRate int
	frames     int
	channels   [][]float32
}

func (b *Buffer) SampleRate() int         { return b.sampleRate }
func (b *Buffer) NumChannels() int        { return len(b.channels) }
func (b *Buffer) Frames() int             { return b.frames }
func (b *Buffer) Channel(i int) []float32 { return b.channels[i] }

// Empty reports whether there is nothing to play. A nil Buffer is empty.
func (b *Buffer) Empty() bool { return b == nil || b.frames == 0 }

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.frames) / float64(b.sampleRate)
}

// Bounds converts region to a clamped frame range [start, end) of asset.
func Bounds(asset Asset, region Region) (start, end int) {
	total := asset.Frames()
	rate := float64(asset.SampleRate())

	start = clamp(toFrame(region.Start, rate), 0, total)
	end = clamp(toFrame(region.End, rate), start, total)

	return start, end
}

// Extract copies region out of asset, reversing each channel in time when
// region.Reversed is set. Out of range bounds are clamped, never rejected,
// and an inverted or zero length region yields an empty Buffer. The asset
// is only read.
func Extract(asset Asset, region Region) *Buffer {
	start, end := Bounds(asset, region)
	return extract(asset, start, end, region.Reversed)
}

// TryExtract is Extract with a ceiling on the buffer size. maxFrames <= 0
// means no ceiling.
func TryExtract(asset Asset, region Region, maxFrames int) (*Buffer, error) {
	start, end := Bounds(asset, region)

	if n := end - start; maxFrames > 0 && n > maxFrames {
		return nil, fmt.Errorf("%w: %d frames, limit %d", ErrAllocationFailed, n, maxFrames)
	}

	return extract(asset, start, end, region.Reversed), nil
}

func extract(asset Asset, start, end int, reversed bool) *Buffer {
	n := end - start
	buf := &Buffer{
		sampleRate: asset.SampleRate(),
		frames:     n,
		channels:   make([][]float32, asset.NumChannels()),
	}

	for c := range buf.channels {
		dst := make([]float32, n)
		src := asset.Channel(c)[start:end]

		if reversed {
			for i := range dst {
				dst[i] = src[n-1-i]
			}
		} else {
			copy(dst, src)
		}

		buf.channels[c] = dst
	}

	return buf
}

// toFrame rounds seconds to a frame index, saturating instead of
// overflowing on absurd input.
func toFrame(t, rate float64) int {
	f := math.Round(t * rate)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
