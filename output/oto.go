//go:build !headless

// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// playerBuffer is how much audio the player reads ahead of the device.
// oto's default of half a second would delay every edit by as much.
const playerBuffer = 30 * time.Millisecond

// Oto plays through the system audio device. oto allows one context per
// process, so the first Open fixes the device format for good.
type Oto struct {
	bufferSize time.Duration

	mtx        sync.Mutex
	ctx        *oto.Context
	player     *oto.Player
	sampleRate int
	channels   int
	started    bool
}

// NewOto returns a device sink. bufferSize is the device latency, zero
// picks oto's default.
func NewOto(bufferSize time.Duration) *Oto {
	return &Oto{bufferSize: bufferSize}
}

func (o *Oto) Open(sampleRate, channels int, r io.Reader) error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.ctx != nil && (o.sampleRate != sampleRate || o.channels != channels) {
		return fmt.Errorf("%w: device runs %dHz/%dch", ErrFormatLocked, o.sampleRate, o.channels)
	}

	if o.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   o.bufferSize,
		})
		if err != nil {
			return fmt.Errorf("creating oto context: %w", err)
		}
		<-ready

		o.ctx = ctx
		o.sampleRate = sampleRate
		o.channels = channels
		log.Printf("output: device open at %dHz, %d channels", sampleRate, channels)
	}

	o.closePlayer()
	o.player = o.ctx.NewPlayer(r)
	o.player.SetBufferSize(bufferBytes(sampleRate, channels, playerBuffer))

	return nil
}

// bufferBytes is the size of d of float32 audio, in whole frames.
func bufferBytes(sampleRate, channels int, d time.Duration) int {
	frames := max(1, int(int64(sampleRate)*int64(d)/int64(time.Second)))
	return frames * channels * 4
}

func (o *Oto) Start() {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.player != nil && !o.started {
		o.player.Play()
		o.started = true
	}
}

func (o *Oto) Pause() {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.player != nil && o.started {
		o.player.Pause()
		o.started = false
	}
}

// Flush throws away what the player has read but not played yet. Seeking
// resets oto's buffer; the reader must implement io.Seeker.
func (o *Oto) Flush() {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.player == nil {
		return
	}
	if _, err := o.player.Seek(0, io.SeekCurrent); err != nil {
		log.Printf("WARN output: flushing player: %v", err)
	}
}

func (o *Oto) Close() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	o.closePlayer()

	if o.ctx != nil {
		if err := o.ctx.Suspend(); err != nil {
			return fmt.Errorf("suspending oto context: %w", err)
		}
	}

	return nil
}

func (o *Oto) closePlayer() {
	if o.player == nil {
		return
	}

	if err := o.player.Close(); err != nil {
		log.Printf("WARN output: closing player: %v", err)
	}
	o.player = nil
	o.started = false
}
