// SPDX-License-Identifier: EPL-2.0

// Package session is the control side of the player: it owns the loaded
// asset, its waveform profile, the loop region and the pitch, and turns
// edits into engine calls.
//
// Decoding runs on a worker pool so a long file never blocks the caller's
// event loop. Everything else happens on the calling goroutine.
package session
