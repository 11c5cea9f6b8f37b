// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/grains/formats/wav"
)

func TestParseProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		out      string
		rate     int
		channels int
		wantErr  error
	}{
		{"stereo", "sample_rate=44100\nchannels=2\n", 44100, 2, nil},
		{"reordered with noise", "channels=1\r\nfoo=bar\nsample_rate=48000\n", 48000, 1, nil},
		{"missing channels", "sample_rate=44100\n", 0, 0, ErrNoAudioStream},
		{"empty", "", 0, 0, ErrNoAudioStream},
		{"garbage values", "sample_rate=N/A\nchannels=2\n", 0, 0, ErrNoAudioStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rate, channels, err := parseProbe([]byte(tt.out))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseProbe() error = %v, want %v", err, tt.wantErr)
			}
			if rate != tt.rate || channels != tt.channels {
				t.Errorf("parseProbe() = %d, %d, want %d, %d", rate, channels, tt.rate, tt.channels)
			}
		})
	}
}

func f32le(values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	// two whole stereo frames and a torn third
	data := append(f32le(0.25, -0.25, 1, -1), 0, 0, 0x80)
	src := &source{r: bytes.NewReader(data), sampleRate: 48000, channels: 2}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want EOF", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() = %d, want 4", n)
	}
	for i, want := range []float32{0.25, -0.25, 1, -1} {
		if buf[i] != want {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want)
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after EOF = %d, %v", n, err)
	}
}

func TestPathOf_Spools(t *testing.T) {
	t.Parallel()

	path, cleanup, err := pathOf(bytes.NewReader([]byte("payload")))
	if err != nil {
		t.Fatalf("pathOf() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil || string(got) != "payload" {
		t.Fatalf("spooled file = %q, %v", got, err)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("spooled file still present after cleanup: %v", err)
	}
}

func TestDecoder_WAVThroughFFmpeg(t *testing.T) {
	dec := Decoder{}
	if !dec.Available() {
		t.Skip("ffmpeg/ffprobe not installed")
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	samples := []int16{16384, -16384, 8192, -8192, 0, 0}
	if err := wav.WriteWAV16(f, 22050, 2, samples); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz / %d ch, want 22050 / 2", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 16)
	total := 0
	for {
		n, err := src.ReadSamples(buf[total:])
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != len(samples) {
		t.Fatalf("read %d samples, want %d", total, len(samples))
	}
	if math.Abs(float64(buf[0]-0.5)) > 1e-3 || math.Abs(float64(buf[3]+0.25)) > 1e-3 {
		t.Errorf("samples = %v", buf[:total])
	}
}
