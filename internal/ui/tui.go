// SPDX-License-Identifier: EPL-2.0

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ik5/grains/engine"
)

// Run shows the TUI until the user quits. Engine events, when events is
// not nil, are forwarded to the model.
func Run(ctl Controller, mode string, events <-chan engine.Event) error {
	p := tea.NewProgram(NewModel(ctl, mode), tea.WithAltScreen())

	if events != nil {
		go func() {
			for ev := range events {
				p.Send(EventStatus(ev))
			}
		}()
	}

	_, err := p.Run()
	return err
}

// EventStatus translates an engine event for the model.
func EventStatus(ev engine.Event) StatusMsg {
	playing := ev.State == engine.Playing
	msg := StatusMsg{Playing: &playing}

	if ev.Kind == engine.EventPitch {
		st := ev.Semitones
		msg.Semitones = &st
	}
	return msg
}
