// SPDX-License-Identifier: EPL-2.0

// Package engine is the real-time loop player.
//
// An Engine owns a graph of loop feed, pitch shifter and output Sink built
// for the sample rate and channel count of the loaded asset. Play installs
// a loop buffer through an atomic pointer; the render goroutine, driven by
// the sink, picks it up at its next block and restarts from the first frame
// with the shifter's history flushed, so two buffers are never heard at the
// same time. Control calls return only after every render block that could
// still see the replaced buffer has finished.
package engine
