// SPDX-License-Identifier: EPL-2.0

// Package utils holds small sample level helpers shared by the pitch
// shifters, the render node and the WAV writer.
package utils
