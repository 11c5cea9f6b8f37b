// SPDX-License-Identifier: EPL-2.0

// Package config reads runtime settings from the environment. Command line
// flags override what is loaded here.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ik5/grains/pitch"
	"github.com/ik5/grains/waveform"
)

type Config struct {
	// Pitch strategy name, see pitch.ParseStrategy.
	PitchMode string
	// Resolution of the waveform strip.
	WaveformBuckets int

	// ffmpeg binaries used for m4a/aac/caf
	FFmpeg  string
	FFprobe string

	// Longest loop, in seconds, a buffer may be built for. 0 is unlimited.
	MaxLoopSeconds float64

	DecodeWorkers int
	DecodeQueue   int

	// Device latency, 0 lets the output pick.
	OutputBuffer time.Duration

	LogFile string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		PitchMode:       envStr("GRAINS_PITCH_MODE", pitch.TimePitch.String()),
		WaveformBuckets: envInt("GRAINS_WAVEFORM_BUCKETS", waveform.DefaultBuckets),
		FFmpeg:          envStr("GRAINS_FFMPEG", "ffmpeg"),
		FFprobe:         envStr("GRAINS_FFPROBE", "ffprobe"),
		MaxLoopSeconds:  envFloat("GRAINS_MAX_LOOP_SECONDS", 600),
		DecodeWorkers:   envInt("GRAINS_DECODE_WORKERS", 1),
		DecodeQueue:     envInt("GRAINS_DECODE_QUEUE", 4),
		OutputBuffer:    time.Duration(envInt("GRAINS_OUTPUT_BUFFER_MS", 0)) * time.Millisecond,
		LogFile:         envStr("GRAINS_LOG_FILE", ""),
	}
}

// Strategy parses PitchMode.
func (c Config) Strategy() (pitch.Strategy, error) {
	return pitch.ParseStrategy(c.PitchMode)
}

// MaxLoopFrames converts MaxLoopSeconds to frames at rate; 0 means unlimited.
func (c Config) MaxLoopFrames(rate int) int {
	if c.MaxLoopSeconds <= 0 {
		return 0
	}
	return int(c.MaxLoopSeconds * float64(rate))
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
