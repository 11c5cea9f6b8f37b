// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes WAV files.
//
// Decoding goes through github.com/go-audio/wav and accepts integer PCM
// (plain or WAVE_FORMAT_EXTENSIBLE) at 8, 16, 24 or 32 bits, any channel
// count and any sample rate. The returned audio.Source yields float32
// samples in [-1, 1]:
//
//	file, _ := os.Open("take1.wav")
//	src, err := wav.Decoder{}.Decode(file)
//
// WriteWAV16 writes interleaved 16-bit PCM; grains uses it for offline
// renders of a loop:
//
//	err := wav.WriteWAV16(out, 44100, 2, interleaved)
//
// Errors:
//   - ErrNotWavFile: no RIFF/WAVE header
//   - ErrUnsupportedEncoding: float or compressed WAV
//   - ErrUnsupportedBitDepth: bit depth other than 8/16/24/32
package wav
