// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis. Samples arrive as float32 already, so the
// Source is a thin pass-through that keeps reads frame aligned.
package vorbis
