// SPDX-License-Identifier: EPL-2.0

// Package loop cuts loop buffers out of a decoded asset.
//
// Region holds the user's markers in seconds. Extract turns them into frame
// indices with round(t*rate), clamps them into the asset, and copies the
// frames into a fresh Buffer, optionally reversed per channel. A new Buffer
// is made for every change of the markers and handed to the playback engine;
// the asset itself is never written.
package loop
