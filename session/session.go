// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/engine"
	"github.com/ik5/grains/internal/worker"
	"github.com/ik5/grains/loop"
	"github.com/ik5/grains/pitch"
	"github.com/ik5/grains/waveform"
)

// DecodeFunc turns a path into a decoded asset, e.g. grains.DecodeFile.
type DecodeFunc func(path string) (*audio.Asset, error)

// Player is the part of *engine.Engine a session drives.
type Player interface {
	LoadAsset(asset *audio.Asset) error
	Play(buf *loop.Buffer, reversed bool, semitones float64) error
	Stop()
	SetPitch(semitones float64)
	ResetPitch()
	State() engine.State
}

var _ Player = (*engine.Engine)(nil)

type Options struct {
	// Buckets is the waveform resolution, waveform.DefaultBuckets when 0.
	Buckets int
	// MaxLoopSeconds caps the loop buffer size; 0 is unlimited.
	MaxLoopSeconds float64
	Logger         *log.Logger
}

// Session is safe for concurrent use, though edits are meant to come from
// one control goroutine.
type Session struct {
	player Player
	decode DecodeFunc
	pool   *worker.Pool
	opts   Options
	log    *log.Logger

	mtx       sync.Mutex
	loads     uint64
	path      string
	asset     *audio.Asset
	profile   waveform.Profile
	region    loop.Region
	semitones float64
}

type loadResult struct {
	asset   *audio.Asset
	profile waveform.Profile
	err     error
}

func New(player Player, decode DecodeFunc, pool *worker.Pool, opts Options) *Session {
	if opts.Buckets <= 0 {
		opts.Buckets = waveform.DefaultBuckets
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Session{
		player: player,
		decode: decode,
		pool:   pool,
		opts:   opts,
		log:    opts.Logger,
	}
}

// Load decodes path on the worker pool and analyzes it, then hands it to
// the engine with the loop set to the whole file. Playback stops. When ctx
// ends first the result is discarded; on any failure the previous asset
// stays loaded.
//
// A device output keeps the format of the first asset it played; loading a
// file with another sample rate or channel count then fails with
// output.ErrFormatLocked, wrapped in engine.ErrAllocationFailed.
func (s *Session) Load(ctx context.Context, path string) error {
	s.mtx.Lock()
	s.loads++
	seq := s.loads
	s.mtx.Unlock()

	done := make(chan loadResult, 1)
	job := worker.Job{
		Name: "decode " + path,
		Ctx:  ctx,
		Run: func(ctx context.Context) {
			done <- s.decodeAndAnalyze(ctx, path)
		},
	}
	if !s.pool.Submit(job) {
		return fmt.Errorf("loading %s: %w", path, ErrBusy)
	}

	var res loadResult
	select {
	case <-ctx.Done():
		return fmt.Errorf("loading %s: %w", path, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return res.err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if seq != s.loads {
		return fmt.Errorf("loading %s: %w", path, ErrSuperseded)
	}
	if err := s.player.LoadAsset(res.asset); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	s.path = path
	s.asset = res.asset
	s.profile = res.profile
	s.region = loop.FullRegion(res.asset.Duration())

	s.log.Printf("session: loaded %s, %.2fs at %dHz", path, res.asset.Duration(), res.asset.SampleRate())

	return nil
}

func (s *Session) decodeAndAnalyze(ctx context.Context, path string) loadResult {
	asset, err := s.decode(path)
	if err != nil {
		return loadResult{err: err}
	}
	if err := ctx.Err(); err != nil {
		return loadResult{err: err}
	}

	profile, err := waveform.Analyze(asset, s.opts.Buckets)
	if err != nil {
		return loadResult{err: fmt.Errorf("analyzing %s: %w", path, err)}
	}

	return loadResult{asset: asset, profile: profile}
}

// Path of the loaded file, empty before the first Load.
func (s *Session) Path() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.path
}

func (s *Session) Asset() *audio.Asset {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.asset
}

// Profile is computed once per Load; callers must not modify it.
func (s *Session) Profile() waveform.Profile {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.profile
}

// Duration of the loaded asset in seconds.
func (s *Session) Duration() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.durationLocked()
}

func (s *Session) durationLocked() float64 {
	if s.asset == nil {
		return 0
	}
	return s.asset.Duration()
}

func (s *Session) Region() loop.Region {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.region
}

func (s *Session) Semitones() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.semitones
}

func (s *Session) Playing() bool {
	return s.player.State() == engine.Playing
}

// SetStart moves the loop start, keeping it at least loop.MinGap before
// the end. A playing loop restarts with the new bounds.
func (s *Session) SetStart(t float64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.region.SetStart(t)
	return s.restartLocked()
}

// SetEnd moves the loop end, keeping it at least loop.MinGap after the
// start and inside the asset.
func (s *Session) SetEnd(t float64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.region.SetEnd(t, s.durationLocked())
	return s.restartLocked()
}

// SetRegion replaces the loop bounds, clamped the same way as SetStart and
// SetEnd. The end is applied first so a start past the old end survives.
func (s *Session) SetRegion(r loop.Region) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	d := s.durationLocked()
	s.region = loop.FullRegion(d)
	s.region.Reversed = r.Reversed
	s.region.SetEnd(r.End, d)
	s.region.SetStart(r.Start)

	return s.restartLocked()
}

func (s *Session) SetReversed(reversed bool) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.region.Reversed == reversed {
		return nil
	}
	s.region.Reversed = reversed
	return s.restartLocked()
}

// SetPitch transposes by semitones without restarting the loop.
func (s *Session) SetPitch(semitones float64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.semitones = pitch.Clamp(semitones)
	s.player.SetPitch(s.semitones)
}

func (s *Session) ResetPitch() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.semitones = 0
	s.player.ResetPitch()
}

// Play builds the loop buffer for the current region and starts it.
func (s *Session) Play() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.playLocked()
}

func (s *Session) Stop() {
	s.player.Stop()
}

// Toggle plays when stopped and stops when playing.
func (s *Session) Toggle() error {
	if s.Playing() {
		s.Stop()
		return nil
	}
	return s.Play()
}

func (s *Session) restartLocked() error {
	if s.player.State() != engine.Playing {
		return nil
	}
	return s.playLocked()
}

func (s *Session) playLocked() error {
	if s.asset == nil {
		return ErrNoAsset
	}

	maxFrames := 0
	if s.opts.MaxLoopSeconds > 0 {
		maxFrames = int(s.opts.MaxLoopSeconds * float64(s.asset.SampleRate()))
	}

	buf, err := loop.TryExtract(s.asset, s.region, maxFrames)
	if err != nil {
		return fmt.Errorf("building loop: %w", err)
	}
	if buf.Empty() {
		s.log.Printf("WARN session: loop %.3f-%.3fs is empty, not playing", s.region.Start, s.region.End)
		return nil
	}

	return s.player.Play(buf, s.region.Reversed, s.semitones)
}
