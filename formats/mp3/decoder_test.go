// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// mockMP3Reader serves canned PCM bytes in chunks of at most step bytes.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	step       int
	err        error
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if len(m.data) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	n := min(len(buf), len(m.data), m.step)
	copy(buf, m.data[:n])
	m.data = m.data[n:]
	return n, nil
}

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("not an mp3"))); err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestSource_ReadSamples_Conversion(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &mockMP3Reader{sampleRate: 44100, data: pcmBytes(16384, -16384, 32767, -32768), step: 3},
		sampleRate: 44100,
	}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want EOF", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}

	want := []float32{0.5, -0.5, 32767.0 / 32768.0, -1}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-6 {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestSource_ReadSamples_DropsPartialFrame(t *testing.T) {
	t.Parallel()

	// one full stereo frame plus a lone left sample
	src := &source{
		dec:        &mockMP3Reader{sampleRate: 48000, data: pcmBytes(1000, 2000, 3000), step: 64},
		sampleRate: 48000,
	}

	n, err := src.ReadSamples(make([]float32, 16))
	if n != 2 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 2, EOF", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := &source{dec: &mockMP3Reader{sampleRate: 44100, err: boom, step: 4}, sampleRate: 44100}

	_, err := src.ReadSamples(make([]float32, 8))
	if !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{sampleRate: 32000}, sampleRate: 32000, buf: make([]byte, 8192)}

	if src.SampleRate() != 32000 {
		t.Errorf("SampleRate() = %d, want 32000", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096", src.BufSize())
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := pcmBytes(make([]int16, 1<<16)...)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src := &source{dec: &mockMP3Reader{sampleRate: 44100, data: data, step: 4608}, sampleRate: 44100}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
