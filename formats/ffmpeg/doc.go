// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg decodes anything the ffmpeg binaries understand, which is
// how AAC/ALAC in M4A and CAF containers are read. ffprobe supplies the
// native sample rate and channel count, then ffmpeg streams raw float32
// little endian samples through a pipe without resampling.
package ffmpeg
