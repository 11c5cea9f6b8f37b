// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/loop"
	"github.com/ik5/grains/pitch"
	"github.com/ik5/grains/utils"
)

const (
	// scratchFrames is how many frames one pass of the render loop handles.
	scratchFrames = 1024

	defaultQuiesceTimeout = 250 * time.Millisecond
	defaultEventBuffer    = 32
	quiescePoll           = 200 * time.Microsecond
)

// Sink is the audio output. It pulls rendered audio from the io.Reader
// given to Open on its own goroutine, as float32 little endian interleaved
// frames at the format passed to Open. The reader is also an io.Seeker
// whose Seek does nothing, for sinks that reset their buffer by seeking.
type Sink interface {
	Open(sampleRate, channels int, r io.Reader) error
	Start()
	Pause()
	// Flush drops audio read but not yet played, so the next sound heard
	// is rendered after the call.
	Flush()
	Close() error
}

type Config struct {
	Strategy pitch.Strategy
	// Logger defaults to log.Default().
	Logger *log.Logger
	// QuiesceTimeout bounds how long a control call waits for the render
	// goroutine to finish a block that may still use replaced state.
	QuiesceTimeout time.Duration
	// EventBuffer is the capacity of the Events channel.
	EventBuffer int
}

// graph is the processing chain for one asset format.
type graph struct {
	rate     int
	channels int
	feed     *feed
	shifter  pitch.Shifter
	scratch  []float32

	// generation of the voice the feed currently plays; render goroutine only
	gen uint64
}

// voice is one installed loop buffer.
type voice struct {
	buf      *loop.Buffer
	gen      uint64
	reversed bool
}

// Engine plays one loop buffer at a time, repeating it without gaps.
//
// Control methods may be called from any goroutine and are serialized.
// Read is the render node: the sink's goroutine calls it, and it neither
// locks nor allocates.
type Engine struct {
	cfg  Config
	log  *log.Logger
	sink Sink

	graph atomic.Pointer[graph]
	voice atomic.Pointer[voice]
	state atomic.Int32

	// render blocks begun and finished
	begun atomic.Uint64
	done  atomic.Uint64

	mu          sync.Mutex
	gen         uint64
	semitones   float64
	sinkOpen    bool
	sinkRunning bool
	closed      bool
	events      chan Event
}

var _ io.ReadSeeker = (*Engine)(nil)

func New(sink Sink, cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.QuiesceTimeout <= 0 {
		cfg.QuiesceTimeout = defaultQuiesceTimeout
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	return &Engine{
		cfg:    cfg,
		log:    cfg.Logger,
		sink:   sink,
		events: make(chan Event, cfg.EventBuffer),
	}
}

// Events delivers state notifications. It is closed by Close. Events are
// dropped, with a warning, when nobody drains the channel.
func (e *Engine) Events() <-chan Event { return e.events }

func (e *Engine) State() State             { return State(e.state.Load()) }
func (e *Engine) Strategy() pitch.Strategy { return e.cfg.Strategy }

func (e *Engine) Semitones() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.semitones
}

// Format of the loaded asset, zeros when none is loaded.
func (e *Engine) Format() (sampleRate, channels int) {
	if g := e.graph.Load(); g != nil {
		return g.rate, g.channels
	}
	return 0, 0
}

// LoadAsset stops playback and rebuilds the graph for the asset's sample
// rate and channel count. On failure the previous graph stays in place.
func (e *Engine) LoadAsset(asset *audio.Asset) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return &Error{Op: "load", Err: ErrClosed}
	}
	if asset == nil {
		return &Error{Op: "load", Err: ErrNoAsset}
	}

	e.stopLocked()

	rate, channels := asset.SampleRate(), asset.NumChannels()
	g, err := e.build(rate, channels)
	if err != nil {
		return &Error{Op: "load", Err: err}
	}

	if old := e.graph.Load(); !e.sinkOpen || old == nil || old.rate != rate || old.channels != channels {
		if err := e.sink.Open(rate, channels, e); err != nil {
			return &Error{Op: "load", Err: fmt.Errorf("%w: %dHz/%dch output: %w", ErrAllocationFailed, rate, channels, err)}
		}
		e.sinkOpen = true
	}

	e.graph.Store(g)
	e.quiesce()

	e.log.Printf("engine: loaded %d frames at %dHz, %d channels, %v pitch", asset.Frames(), rate, channels, e.cfg.Strategy)
	e.emit(Event{Kind: EventLoaded, State: Stopped, Semitones: e.semitones, Frames: asset.Frames()})

	return nil
}

func (e *Engine) build(rate, channels int) (*graph, error) {
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, audio.ErrInvalidFormat)
	}

	f := &feed{rate: rate, channels: channels}
	sh, err := pitch.New(e.cfg.Strategy, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	sh.SetPitch(e.semitones)

	return &graph{
		rate:     rate,
		channels: channels,
		feed:     f,
		shifter:  sh,
		scratch:  make([]float32, scratchFrames*channels),
	}, nil
}

// Play installs buf as the looping source, replacing whatever played
// before, and applies semitones. reversed records whether buf was already
// reversed by the caller; it is reported, not applied. An empty buf is a
// no-op.
func (e *Engine) Play(buf *loop.Buffer, reversed bool, semitones float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return &Error{Op: "play", Err: ErrClosed}
	}
	if buf.Empty() {
		return nil
	}

	g := e.graph.Load()
	if g == nil {
		return &Error{Op: "play", Err: ErrNoAsset}
	}
	if buf.SampleRate() != g.rate || buf.NumChannels() != g.channels {
		return &Error{Op: "play", Err: fmt.Errorf("%w: %dHz/%dch into %dHz/%dch",
			ErrFormatMismatch, buf.SampleRate(), buf.NumChannels(), g.rate, g.channels)}
	}

	semitones = pitch.Clamp(semitones)
	e.semitones = semitones
	g.shifter.SetPitch(semitones)

	e.gen++
	e.voice.Store(&voice{buf: buf, gen: e.gen, reversed: reversed})
	// after this no render block holds the previous buffer
	e.quiesce()
	// and the device holds none of its audio
	e.sink.Flush()

	if !e.sinkRunning {
		e.sink.Start()
		e.sinkRunning = true
	}
	e.state.Store(int32(Playing))

	e.emit(Event{Kind: EventPlaying, State: Playing, Semitones: semitones, Frames: buf.Frames(), Reversed: reversed})

	return nil
}

// Stop silences playback. Stopping a stopped engine does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.State() == Stopped {
		return
	}

	e.voice.Store(nil)
	e.quiesce()

	if e.sinkRunning {
		e.sink.Pause()
		e.sinkRunning = false
	}
	e.sink.Flush()
	e.state.Store(int32(Stopped))

	e.emit(Event{Kind: EventStopped, State: Stopped, Semitones: e.semitones})
}

// SetPitch changes the transposition in any state. NaN counts as zero and
// values beyond pitch.MaxSemitones are clamped. Playing audio follows
// from its next block; it is also applied to later Play calls' graphs.
func (e *Engine) SetPitch(semitones float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	semitones = pitch.Clamp(semitones)
	e.semitones = semitones
	if g := e.graph.Load(); g != nil {
		g.shifter.SetPitch(semitones)
	}

	e.emit(Event{Kind: EventPitch, State: e.State(), Semitones: semitones})
}

// ResetPitch returns to zero semitones.
func (e *Engine) ResetPitch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.semitones = 0
	if g := e.graph.Load(); g != nil {
		g.shifter.Reset()
	}

	e.emit(Event{Kind: EventPitch, State: e.State()})
}

// Close stops playback, closes the sink and the Events channel. Later
// calls return ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.stopLocked()
	e.graph.Store(nil)
	e.quiesce()

	e.closed = true
	close(e.events)

	if err := e.sink.Close(); err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}

// Read renders len(p) bytes of audio. While stopped, or for a trailing
// partial frame, it writes silence. It never fails.
func (e *Engine) Read(p []byte) (int, error) {
	e.begun.Add(1)
	defer e.done.Add(1)

	g := e.graph.Load()
	v := e.voice.Load()
	if g == nil || v == nil || v.buf.NumChannels() != g.channels {
		clear(p)
		return len(p), nil
	}

	if v.gen != g.gen {
		g.feed.set(v.buf)
		g.shifter.Flush()
		g.gen = v.gen
	}

	frameBytes := 4 * g.channels
	whole := len(p) - len(p)%frameBytes

	for off := 0; off < whole; {
		chunk := min(len(g.scratch), (whole-off)/4)
		n, err := g.shifter.ReadSamples(g.scratch[:chunk])
		if n == 0 || err != nil {
			// the feed never ends, so this is a broken shifter
			clear(p[off:])
			return len(p), nil
		}
		off += utils.PutFloat32LE(p[off:], g.scratch[:n])
	}

	clear(p[whole:])

	return len(p), nil
}

// Seek does nothing. Sinks seek to discard what they buffered, the render
// position is owned by the loop feed.
func (e *Engine) Seek(int64, int) (int64, error) { return 0, nil }

// quiesce waits until every render block begun so far has finished.
func (e *Engine) quiesce() {
	target := e.begun.Load()
	if e.done.Load() >= target {
		return
	}

	deadline := time.Now().Add(e.cfg.QuiesceTimeout)
	for e.done.Load() < target {
		if time.Now().After(deadline) {
			e.log.Printf("WARN engine: render still busy after %v", e.cfg.QuiesceTimeout)
			return
		}
		time.Sleep(quiescePoll)
	}
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.log.Printf("WARN engine: dropping %v event, channel full", ev.Kind)
	}
}
