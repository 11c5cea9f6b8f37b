// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding primitives the rest of grains builds on.
//
// # Source Interface
//
// The Source interface is an interleaved float32 stream:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Every format decoder returns a Source, and the pitch shifters in
// package pitch are Sources layered on top of the looping reader.
//
// # Assets
//
// An Asset is a whole file decoded into memory and split per channel.
// ReadAsset drains a Source into an Asset; DecodeFile does the same for a
// path, choosing the decoder from a Registry by file extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	asset, err := audio.DecodeFile(registry, "take1.wav")
//
// Assets are immutable, so the loop extractor and the waveform analyzer may
// read the same asset from different goroutines.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. DecodeFile wraps
// every failure in a *DecodeError carrying the path:
//
//	asset, err := audio.DecodeFile(registry, path)
//	if errors.Is(err, audio.ErrUnsupportedFormat) {
//	    // no decoder for this extension
//	}
package audio
