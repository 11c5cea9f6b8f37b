// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/grains/audio"
	"github.com/mewkiz/flac"
)

// frameParser is the part of *flac.Stream the source needs.
type frameParser interface {
	next() (blockSize int, subframes [][]int32, err error)
	close() error
}

type stream struct {
	s *flac.Stream
}

func (st stream) next() (int, [][]int32, error) {
	frame, err := st.s.ParseNext()
	if err != nil {
		return 0, nil, err
	}

	sub := make([][]int32, len(frame.Subframes))
	for i, sf := range frame.Subframes {
		sub[i] = sf.Samples
	}

	return int(frame.BlockSize), sub, nil
}

func (st stream) close() error { return st.s.Close() }

type source struct {
	dec        frameParser
	sampleRate int
	channels   int
	scale      float32

	// current block, consumed frame by frame
	block [][]int32
	size  int
	pos   int
	eof   bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if err := s.dec.close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	frames := len(dst) / s.channels

	for i := 0; i < frames; i++ {
		if s.pos >= s.size {
			if s.eof {
				break
			}

			size, block, err := s.dec.next()
			if errors.Is(err, io.EOF) {
				s.eof = true
				break
			}
			if err != nil {
				return written, fmt.Errorf("%w", err)
			}
			if len(block) < s.channels {
				return written, ErrChannelMismatch
			}

			s.block, s.size, s.pos = block, size, 0
			if size == 0 {
				i--
				continue
			}
		}

		for c := range s.channels {
			dst[written+c] = float32(s.block[c][s.pos]) * s.scale
		}
		written += s.channels
		s.pos++
	}

	if s.eof && written == 0 {
		return 0, io.EOF
	}

	return written, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	st, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := st.Info
	if info.NChannels == 0 || info.SampleRate == 0 {
		_ = st.Close()
		return nil, ErrInvalidStreamInfo
	}
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		_ = st.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return newSource(stream{st}, int(info.SampleRate), int(info.NChannels), int(info.BitsPerSample)), nil
}

func newSource(dec frameParser, sampleRate, channels, bitDepth int) *source {
	return &source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      1 / float32(int64(1)<<(bitDepth-1)),
	}
}
