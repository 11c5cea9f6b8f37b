// SPDX-License-Identifier: EPL-2.0

// Package grains turns a short recording into a live, pitch shifted loop.
//
// # Pipeline
//
// A file is decoded once into an audio.Asset held in memory. Each time the
// loop markers or the reverse switch change, loop.Extract copies the region
// into a fresh loop.Buffer and engine.Engine.Play installs it; the engine
// repeats the buffer without gaps through a pitch.Shifter into an output
// sink. waveform.Analyze builds the magnitude strip for the whole asset
// once, at load time.
//
//	asset, err := grains.DecodeFile("take.m4a")
//	if err != nil {
//		return err
//	}
//
//	e := engine.New(output.NewOto(0), engine.Config{Strategy: pitch.TimePitch})
//	defer e.Close()
//
//	if err := e.LoadAsset(asset); err != nil {
//		return err
//	}
//
//	region := loop.Region{Start: 0.5, End: 1.25, Reversed: true}
//	if err := e.Play(loop.Extract(asset, region), region.Reversed, -3); err != nil {
//		return err
//	}
//
// # Supported Formats
//
//   - WAV (8/16/24/32-bit PCM) via formats/wav
//   - AIFF (8/16/24/32-bit PCM) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//   - M4A/AAC/ALAC/CAF via formats/ffmpeg, which needs the ffmpeg and
//     ffprobe binaries
//
// Assets keep their native sample rate and channel count; nothing is
// resampled to a fixed output format.
//
// # Pitch
//
// pitch.TimePitch keeps the loop length fixed while the pitch moves.
// pitch.Varispeed plays faster or slower, so the loop shortens as the pitch
// rises. The strategy is chosen when the engine is built.
//
// The session package wraps all of this behind the controls of the editor
// screen, and cmd/grains puts a terminal interface on top.
package grains
