// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams with github.com/mewkiz/flac.
//
// Blocks are parsed lazily, one per exhausted block, and scaled from their
// native bit depth to float32 in [-1, 1).
package flac
