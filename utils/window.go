// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// HannWindow returns a periodic Hann window of n points, so that two copies
// offset by n/2 sum to one.
func HannWindow(n int) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = float32(0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}
