// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockReader simulates a go-audio decoder.
type mockReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	fail       bool
}

func (m *mockReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: m.sampleRate, NumChannels: m.channels}
}

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.fail {
		return 0, io.ErrUnexpectedEOF
	}
	if m.offset >= len(m.samples) {
		return 0, nil
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestNewSource_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bitDepth  int
		unsigned8 bool
		raw       int
		want      float32
	}{
		{"16-bit half", 16, false, 16384, 0.5},
		{"16-bit min", 16, false, -32768, -1.0},
		{"24-bit quarter", 24, false, 2097152, 0.25},
		{"32-bit half", 32, false, 1073741824, 0.5},
		{"signed 8-bit", 8, false, -64, -0.5},
		{"unsigned 8-bit center", 8, true, 128, 0},
		{"unsigned 8-bit low", 8, true, 0, -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewSource(&mockReader{sampleRate: 8000, channels: 1, samples: []int{tt.raw}}, tt.bitDepth, tt.unsigned8)
			if err != nil {
				t.Fatalf("NewSource() error = %v", err)
			}

			buf := make([]float32, 4)
			n, _ := src.ReadSamples(buf)
			if n != 1 {
				t.Fatalf("ReadSamples() n = %d, want 1", n)
			}
			if math.Abs(float64(buf[0]-tt.want)) > 1e-6 {
				t.Errorf("sample = %v, want %v", buf[0], tt.want)
			}
		})
	}
}

func TestNewSource_UnsupportedBitDepth(t *testing.T) {
	t.Parallel()

	_, err := NewSource(&mockReader{sampleRate: 8000, channels: 1}, 12, false)
	if !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("NewSource() error = %v, want ErrUnsupportedBitDepth", err)
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src, _ := NewSource(&mockReader{sampleRate: 44100, channels: 2, samples: make([]int, 6)}, 16, false)

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if n != 4 || err != nil {
		t.Fatalf("first ReadSamples() = %d, %v, want 4, nil", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 2 || err != io.EOF {
		t.Fatalf("second ReadSamples() = %d, %v, want 2, EOF", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("third ReadSamples() = %d, %v, want 0, EOF", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src, _ := NewSource(&mockReader{sampleRate: 44100, channels: 1, fail: true}, 16, false)

	_, err := src.ReadSamples(make([]float32, 8))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestSeekable(t *testing.T) {
	t.Parallel()

	already := bytes.NewReader([]byte("abc"))
	rs, err := Seekable(already)
	if err != nil || rs != already {
		t.Errorf("Seekable(bytes.Reader) = %v, %v, want same reader", rs, err)
	}

	rs, err = Seekable(io.MultiReader(strings.NewReader("ab"), strings.NewReader("cd")))
	if err != nil {
		t.Fatalf("Seekable() error = %v", err)
	}
	if _, err := rs.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "cd" {
		t.Errorf("after Seek(2) read %q, want %q", rest, "cd")
	}
}
