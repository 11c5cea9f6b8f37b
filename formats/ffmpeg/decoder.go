// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ik5/grains/audio"
)

const bytesPerSample = 4

// Decoder shells out to ffprobe for the stream format and to ffmpeg for
// the samples. Output keeps the file's native rate and channel count.
type Decoder struct {
	// FFmpeg and FFprobe are the binaries to run. Empty means look them up
	// on PATH as "ffmpeg" and "ffprobe".
	FFmpeg  string
	FFprobe string
}

func (d Decoder) ffmpeg() string {
	if d.FFmpeg == "" {
		return "ffmpeg"
	}
	return d.FFmpeg
}

func (d Decoder) ffprobe() string {
	if d.FFprobe == "" {
		return "ffprobe"
	}
	return d.FFprobe
}

// Available reports whether both binaries can be found.
func (d Decoder) Available() bool {
	if _, err := exec.LookPath(d.ffmpeg()); err != nil {
		return false
	}
	_, err := exec.LookPath(d.ffprobe())
	return err == nil
}

// Decode needs a path for ffprobe, so readers that are not files are spooled
// to a temporary file first.
func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	path, cleanup, err := pathOf(r)
	if err != nil {
		return nil, err
	}

	rate, channels, err := d.Probe(context.Background(), path)
	if err != nil {
		cleanup()
		return nil, err
	}

	src, err := d.start(path, rate, channels)
	if err != nil {
		cleanup()
		return nil, err
	}
	src.cleanup = cleanup

	return src, nil
}

// Probe returns the sample rate and channel count of the first audio stream.
func (d Decoder) Probe(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, d.ffprobe(),
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels",
		"-of", "default=noprint_wrappers=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	return parseProbe(out)
}

// parseProbe reads the key=value lines printed by ffprobe.
func parseProbe(out []byte) (int, int, error) {
	var rate, channels int

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}

		switch key {
		case "sample_rate":
			rate = n
		case "channels":
			channels = n
		}
	}

	if rate <= 0 || channels <= 0 {
		return 0, 0, ErrNoAudioStream
	}

	return rate, channels, nil
}

func (d Decoder) start(path string, rate, channels int) (*source, error) {
	cmd := exec.Command(d.ffmpeg(),
		"-v", "error",
		"-i", path,
		"-vn",
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}

	return &source{
		cmd:        cmd,
		stderr:     stderr,
		r:          bufio.NewReaderSize(stdout, 64*1024),
		sampleRate: rate,
		channels:   channels,
	}, nil
}

// pathOf returns a filesystem path holding the data of r.
func pathOf(r io.Reader) (string, func(), error) {
	if f, ok := r.(*os.File); ok {
		return f.Name(), func() {}, nil
	}

	tmp, err := os.CreateTemp("", "grains-*.audio")
	if err != nil {
		return "", nil, fmt.Errorf("spool: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil {
			log.Printf("WARN ffmpeg: removing %s: %v", tmp.Name(), err)
		}
	}

	_, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("spool: %w", err)
	}

	return tmp.Name(), cleanup, nil
}

type source struct {
	cmd     *exec.Cmd
	stderr  *bytes.Buffer
	r       io.Reader
	cleanup func()

	sampleRate int
	channels   int
	raw        []byte
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	frames := len(dst) / s.channels
	if frames == 0 {
		return 0, nil
	}

	need := frames * s.channels * bytesPerSample
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	raw := s.raw[:need]

	n, err := io.ReadFull(s.r, raw)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	n -= n % (s.channels * bytesPerSample)
	samples := n / bytesPerSample
	for i := range samples {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*bytesPerSample:]))
	}

	if errors.Is(err, io.EOF) {
		s.done = true
		if werr := s.wait(); werr != nil {
			return samples, werr
		}
		return samples, io.EOF
	}
	if err != nil {
		return samples, fmt.Errorf("%w", err)
	}

	return samples, nil
}

func (s *source) wait() error {
	if s.cmd == nil {
		return nil
	}

	cmd := s.cmd
	s.cmd = nil
	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}

	return nil
}

func (s *source) Close() error {
	defer func() {
		if s.cleanup != nil {
			s.cleanup()
			s.cleanup = nil
		}
	}()

	if s.cmd == nil {
		return nil
	}

	if !s.done && s.cmd.Process != nil {
		// stopped early; the exit status is meaningless
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		s.cmd = nil
		return nil
	}

	return s.wait()
}
