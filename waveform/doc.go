// SPDX-License-Identifier: EPL-2.0

// Package waveform computes the magnitude strip drawn behind the loop
// markers. It is built once per loaded asset; moving the markers only
// changes which buckets InLoop reports, not the profile itself.
package waveform
