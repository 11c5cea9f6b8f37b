// SPDX-License-Identifier: EPL-2.0

package waveform_test

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ik5/grains/internal/audiotest"
	"github.com/ik5/grains/loop"
	"github.com/ik5/grains/waveform"
)

func TestAnalyze_Silence(t *testing.T) {
	t.Parallel()

	asset := audiotest.Asset(t, 44100, 1, 1000, audiotest.Silence)

	p, err := waveform.Analyze(asset, 100)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(p) != 100 {
		t.Fatalf("len = %d, want 100", len(p))
	}
	for i, v := range p {
		if v != 0 {
			t.Fatalf("p[%d] = %v, want 0", i, v)
		}
	}
}

func TestAnalyze_PeakIsOne(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		frames int
		n      int
		gen    audiotest.Gen
	}{
		{"sine", 44100, 300, audiotest.Sine(220, 44100)},
		{"ramp", 999, 10, audiotest.Ramp},
		{"uneven split", 1003, 7, audiotest.Sine(3, 1003)},
		{"constant", 500, 500, audiotest.Const(-0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := waveform.Analyze(audiotest.Asset(t, 44100, 2, tt.frames, tt.gen), tt.n)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if len(p) != tt.n {
				t.Errorf("len = %d, want %d", len(p), tt.n)
			}
			if p.Max() != 1 {
				t.Errorf("Max() = %v, want 1", p.Max())
			}
			for i, v := range p {
				if v < 0 || v > 1 {
					t.Errorf("p[%d] = %v outside [0,1]", i, v)
				}
			}
		})
	}
}

func TestAnalyze_RMSBuckets(t *testing.T) {
	t.Parallel()

	// bucket 0 is a ±0.5 square, bucket 1 a ±1 square: RMS 0.5 and 1
	ch := []float32{0.5, -0.5, 0.5, -0.5, 1, -1, 1, -1}
	p, err := waveform.Analyze(audiotest.Values(t, 8, ch), 2)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(p, waveform.Profile{0.5, 1}) {
		t.Errorf("Analyze() = %v, want [0.5 1]", p)
	}
}

func TestAnalyze_OnlyChannelZero(t *testing.T) {
	t.Parallel()

	left := []float32{0, 0, 0, 0}
	right := []float32{1, 1, 1, 1}
	p, err := waveform.Analyze(audiotest.Values(t, 4, left, right), 2)
	if err != nil {
		t.Fatal(err)
	}

	if p.Max() != 0 {
		t.Errorf("right channel leaked into profile: %v", p)
	}
}

func TestAnalyze_FewerFramesThanBuckets(t *testing.T) {
	t.Parallel()

	p, err := waveform.Analyze(audiotest.Values(t, 4, []float32{-0.2, 0.4, -0.1}), 300)
	if err != nil {
		t.Fatal(err)
	}

	want := waveform.Profile{0.5, 1, 0.25}
	if len(p) != len(want) {
		t.Fatalf("len = %d, want %d", len(p), len(want))
	}
	for i := range want {
		if math.Abs(float64(p[i]-want[i])) > 1e-6 {
			t.Errorf("p[%d] = %v, want %v", i, p[i], want[i])
		}
	}
}

func TestAnalyze_NonFiniteSamples(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name string
		ch   []float32
		n    int
		want waveform.Profile
	}{
		// buckets of two: {0.5,NaN} {1,-1} {+Inf,-0.5}
		{"rms buckets", []float32{0.5, nan, 1, -1, inf, -0.5}, 3, waveform.Profile{0.5, 1, 0.5}},
		{"per frame", []float32{nan, -0.4, inf, 0.2}, 300, waveform.Profile{0, 1, 0, 0.5}},
		{"all NaN", []float32{nan, nan, nan, nan}, 2, waveform.Profile{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := waveform.Analyze(audiotest.Values(t, 4, tt.ch), tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if len(p) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(p), len(tt.want))
			}
			for i := range tt.want {
				if math.Abs(float64(p[i]-tt.want[i])) > 1e-6 {
					t.Errorf("p[%d] = %v, want %v", i, p[i], tt.want[i])
				}
			}
		})
	}
}

func TestProfile_MaxSkipsNonFinite(t *testing.T) {
	t.Parallel()

	p := waveform.Profile{0.25, float32(math.NaN()), float32(math.Inf(1)), 0.5}
	if got := p.Max(); got != 0.5 {
		t.Errorf("Max() = %v, want 0.5", got)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	asset := audiotest.Asset(t, 48000, 1, 48000, audiotest.Sine(97, 48000))

	a, _ := waveform.Analyze(asset, waveform.DefaultBuckets)
	b, _ := waveform.Analyze(asset, waveform.DefaultBuckets)
	if !slices.Equal(a, b) {
		t.Error("Analyze() is not deterministic")
	}
}

func TestAnalyze_InvalidTarget(t *testing.T) {
	t.Parallel()

	asset := audiotest.Asset(t, 8000, 1, 10, audiotest.Ramp)
	for _, n := range []int{0, -3} {
		if _, err := waveform.Analyze(asset, n); !errors.Is(err, waveform.ErrInvalidTarget) {
			t.Errorf("Analyze(%d) error = %v, want ErrInvalidTarget", n, err)
		}
	}
}

func TestAnalyze_LoopBuffer(t *testing.T) {
	t.Parallel()

	asset := audiotest.Asset(t, 1000, 1, 1000, audiotest.Ramp)
	buf := loop.Extract(asset, loop.Region{Start: 0.2, End: 0.6})

	p, err := waveform.Analyze(buf, 4)
	if err != nil || len(p) != 4 {
		t.Fatalf("Analyze() = %v, %v", p, err)
	}
	if p[3] != 1 || !(p[0] < p[1] && p[1] < p[2]) {
		t.Errorf("ramp profile not rising: %v", p)
	}
}

func TestProfile_InLoop(t *testing.T) {
	t.Parallel()

	p := make(waveform.Profile, 10)
	region := loop.Region{Start: 2, End: 5}

	var in []int
	for i := range p {
		if p.InLoop(i, region, 10) {
			in = append(in, i)
		}
	}

	// bucket starts at 0,1,...,9 seconds; 2 and 5 sit on the bounds
	if !slices.Equal(in, []int{2, 3, 4, 5}) {
		t.Errorf("buckets in loop = %v, want [2 3 4 5]", in)
	}
}
