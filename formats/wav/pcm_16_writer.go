// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// header16 is the canonical 44 byte RIFF/WAVE header for PCM16.
type header16 struct {
	Riff       [4]byte
	RiffSize   uint32
	Wave       [4]byte
	Fmt        [4]byte
	FmtSize    uint32
	Format     uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	Bits       uint16
	Data       [4]byte
	DataSize   uint32
}

// writeChunk bounds the scratch buffer used for sample data.
const writeChunk = 8192

// WriteWAV16 writes interleaved 16-bit PCM with the given channel count.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}

	dataSize := uint32(2 * len(samples))
	hdr := header16{
		Riff:       [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:   36 + dataSize,
		Wave:       [4]byte{'W', 'A', 'V', 'E'},
		Fmt:        [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     formatPCM,
		Channels:   uint16(channels),
		SampleRate: uint32(sampleRate),
		ByteRate:   uint32(sampleRate * channels * 2),
		BlockAlign: uint16(channels * 2),
		Bits:       16,
		Data:       [4]byte{'d', 'a', 't', 'a'},
		DataSize:   dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var scratch []byte
	for len(samples) > 0 {
		n := min(len(samples), writeChunk)
		scratch = scratch[:0]
		for _, s := range samples[:n] {
			scratch = binary.LittleEndian.AppendUint16(scratch, uint16(s))
		}
		if _, err := w.Write(scratch); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
		samples = samples[n:]
	}

	return nil
}
