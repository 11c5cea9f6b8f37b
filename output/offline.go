// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
)

// Offline is a sink without a device: audio is pulled by calling Render,
// as fast as the caller wants. While paused it renders silence without
// reading, the same as a paused device.
type Offline struct {
	mtx        sync.Mutex
	r          io.Reader
	sampleRate int
	channels   int
	started    bool
	flushes    int
	raw        []byte
}

func NewOffline() *Offline { return &Offline{} }

func (o *Offline) Open(sampleRate, channels int, r io.Reader) error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	o.r = r
	o.sampleRate = sampleRate
	o.channels = channels
	o.started = false

	return nil
}

func (o *Offline) Start() {
	o.mtx.Lock()
	o.started = true
	o.mtx.Unlock()
}

func (o *Offline) Pause() {
	o.mtx.Lock()
	o.started = false
	o.mtx.Unlock()
}

// Flush counts calls; Offline buffers nothing, Render always reads fresh.
func (o *Offline) Flush() {
	o.mtx.Lock()
	o.flushes++
	o.mtx.Unlock()
}

// Flushes is how many times Flush was called.
func (o *Offline) Flushes() int {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	return o.flushes
}

func (o *Offline) Close() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	o.r = nil
	o.started = false
	return nil
}

// Format is the one passed to the last Open.
func (o *Offline) Format() (sampleRate, channels int) {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	return o.sampleRate, o.channels
}

func (o *Offline) Started() bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	return o.started
}

// Render pulls frames frames of interleaved samples.
func (o *Offline) Render(frames int) ([]float32, error) {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.r == nil {
		return nil, ErrNotOpen
	}

	out := make([]float32, frames*o.channels)
	if !o.started {
		return out, nil
	}

	need := len(out) * 4
	if cap(o.raw) < need {
		o.raw = make([]byte, need)
	}
	raw := o.raw[:need]

	if _, err := io.ReadFull(o.r, raw); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return out, nil
}
