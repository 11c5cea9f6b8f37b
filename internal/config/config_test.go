// SPDX-License-Identifier: EPL-2.0

package config

import (
	"testing"
	"time"

	"github.com/ik5/grains/pitch"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"GRAINS_PITCH_MODE", "GRAINS_WAVEFORM_BUCKETS", "GRAINS_FFMPEG", "GRAINS_FFPROBE",
		"GRAINS_MAX_LOOP_SECONDS", "GRAINS_DECODE_WORKERS", "GRAINS_DECODE_QUEUE",
		"GRAINS_OUTPUT_BUFFER_MS", "GRAINS_LOG_FILE",
	} {
		t.Setenv(k, "")
	}

	c := Load()

	if s, err := c.Strategy(); err != nil || s != pitch.TimePitch {
		t.Errorf("Strategy() = %v, %v, want time", s, err)
	}
	if c.WaveformBuckets != 300 {
		t.Errorf("WaveformBuckets = %d, want 300", c.WaveformBuckets)
	}
	if c.FFmpeg != "ffmpeg" || c.FFprobe != "ffprobe" {
		t.Errorf("ffmpeg binaries = %q, %q", c.FFmpeg, c.FFprobe)
	}
	if c.DecodeWorkers != 1 || c.DecodeQueue != 4 || c.OutputBuffer != 0 {
		t.Errorf("workers/queue/buffer = %d/%d/%v", c.DecodeWorkers, c.DecodeQueue, c.OutputBuffer)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GRAINS_PITCH_MODE", "varispeed")
	t.Setenv("GRAINS_WAVEFORM_BUCKETS", "120")
	t.Setenv("GRAINS_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("GRAINS_MAX_LOOP_SECONDS", "2.5")
	t.Setenv("GRAINS_DECODE_WORKERS", "not-a-number")
	t.Setenv("GRAINS_OUTPUT_BUFFER_MS", "40")

	c := Load()

	if s, err := c.Strategy(); err != nil || s != pitch.Varispeed {
		t.Errorf("Strategy() = %v, %v, want varispeed", s, err)
	}
	if c.WaveformBuckets != 120 {
		t.Errorf("WaveformBuckets = %d, want 120", c.WaveformBuckets)
	}
	if c.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpeg = %q", c.FFmpeg)
	}
	if c.DecodeWorkers != 1 {
		t.Errorf("DecodeWorkers = %d, want fallback 1", c.DecodeWorkers)
	}
	if c.OutputBuffer != 40*time.Millisecond {
		t.Errorf("OutputBuffer = %v, want 40ms", c.OutputBuffer)
	}
	if got := c.MaxLoopFrames(44100); got != 110250 {
		t.Errorf("MaxLoopFrames(44100) = %d, want 110250", got)
	}
}

func TestMaxLoopFrames_Unlimited(t *testing.T) {
	t.Parallel()

	if got := (Config{}).MaxLoopFrames(48000); got != 0 {
		t.Errorf("MaxLoopFrames() = %d, want 0", got)
	}
}

func TestStrategy_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := (Config{PitchMode: "chipmunk"}).Strategy(); err == nil {
		t.Error("Strategy() error = nil for unknown mode")
	}
}
