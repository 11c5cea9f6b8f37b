//go:build headless

// SPDX-License-Identifier: EPL-2.0

package output

import (
	"io"
	"time"
)

// Oto stands in for the device in builds without audio support. It accepts
// any format and never reads.
type Oto struct {
	sampleRate int
	channels   int
	started    bool
}

func NewOto(time.Duration) *Oto { return &Oto{} }

func (o *Oto) Open(sampleRate, channels int, _ io.Reader) error {
	o.sampleRate, o.channels = sampleRate, channels
	o.started = false
	return nil
}

func (o *Oto) Start()       { o.started = true }
func (o *Oto) Pause()       { o.started = false }
func (o *Oto) Flush()       {}
func (o *Oto) Close() error { o.started = false; return nil }
