// SPDX-License-Identifier: EPL-2.0

// Package ui is the terminal front end: a waveform strip with the loop
// markers, and keys for transport, loop bounds, reverse and pitch.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/grains/loop"
	"github.com/ik5/grains/waveform"
)

const (
	maxSemitones = 12
	pitchStep    = 0.5
	stripRows    = 4
	defaultWidth = 80
)

// Controller is what the model drives, normally a *session.Session.
type Controller interface {
	Toggle() error
	Stop()
	SetStart(t float64) error
	SetEnd(t float64) error
	SetReversed(reversed bool) error
	SetPitch(semitones float64)
	ResetPitch()

	Path() string
	Profile() waveform.Profile
	Duration() float64
	Region() loop.Region
	Semitones() float64
	Playing() bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	startStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	endStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	bothStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Model is the TUI state. It mirrors the controller after every change so
// View never calls into it.
type Model struct {
	ctl  Controller
	mode string

	path      string
	profile   waveform.Profile
	duration  float64
	region    loop.Region
	semitones float64
	playing   bool

	status string
	err    error

	width  int
	height int
}

// StatusMsg carries changes that did not come from a key press, such as
// engine events or a failed load.
type StatusMsg struct {
	Playing   *bool
	Semitones *float64
	Text      string
	Err       error
}

func NewModel(ctl Controller, mode string) Model {
	m := Model{ctl: ctl, mode: mode}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderStrip())
	b.WriteString(m.renderMarkers())
	b.WriteString("\n\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.step()

	var err error
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.ctl.Stop()
		return m, tea.Quit
	case " ", "enter":
		err = m.ctl.Toggle()
	case "left", "h":
		err = m.ctl.SetStart(m.region.Start - step)
	case "right", "l":
		err = m.ctl.SetStart(m.region.Start + step)
	case "shift+left", "H":
		err = m.ctl.SetEnd(m.region.End - step)
	case "shift+right", "L":
		err = m.ctl.SetEnd(m.region.End + step)
	case "home":
		err = m.ctl.SetStart(0)
	case "end":
		err = m.ctl.SetEnd(m.duration)
	case "r":
		err = m.ctl.SetReversed(!m.region.Reversed)
	case "up", "k", "+":
		m.ctl.SetPitch(min(m.semitones+pitchStep, maxSemitones))
	case "down", "j", "-":
		m.ctl.SetPitch(max(m.semitones-pitchStep, -maxSemitones))
	case "0":
		m.ctl.ResetPitch()
	default:
		return m, nil
	}

	m.err = err
	m.sync()

	return m, nil
}

// step is how far one key press moves a marker: one bucket of the strip.
func (m Model) step() float64 {
	n := len(m.profile)
	if n == 0 {
		n = 100
	}
	return m.duration / float64(n)
}

func (m *Model) sync() {
	if m.ctl == nil {
		return
	}
	m.path = m.ctl.Path()
	m.profile = m.ctl.Profile()
	m.duration = m.ctl.Duration()
	m.region = m.ctl.Region()
	m.semitones = m.ctl.Semitones()
	m.playing = m.ctl.Playing()
}

func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Playing != nil {
		m.playing = *msg.Playing
	}
	if msg.Semitones != nil {
		m.semitones = *msg.Semitones
	}
	if msg.Text != "" {
		m.status = msg.Text
	}
	if msg.Err != nil {
		m.err = msg.Err
	}
}

func (m Model) renderHeader() string {
	name := "(nothing loaded)"
	if m.path != "" {
		name = filepath.Base(m.path)
	}

	state := "stopped"
	if m.playing {
		state = "playing"
	}

	return titleStyle.Render("grains") + "  " + name + "  [" + state + "]"
}

func (m Model) columns() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	return max(1, min(w, len(m.profile)))
}

// bucketAt maps screen column col to a profile index.
func (m Model) bucketAt(col, cols int) int {
	return col * len(m.profile) / cols
}

func (m Model) renderStrip() string {
	if len(m.profile) == 0 {
		return dimStyle.Render(strings.Repeat("─", defaultWidth)) + "\n"
	}

	cols := m.columns()
	var b strings.Builder
	for row := stripRows - 1; row >= 0; row-- {
		for col := range cols {
			i := m.bucketAt(col, cols)
			cell := string(barCell(m.profile[i], row))
			if m.profile.InLoop(i, m.region, m.duration) {
				b.WriteString(activeStyle.Render(cell))
			} else {
				b.WriteString(dimStyle.Render(cell))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

var levels = []rune(" ▁▂▃▄▅▆▇█")

// barCell is the glyph for row (0 at the bottom) of a bar of height v in [0,1].
func barCell(v float32, row int) rune {
	steps := len(levels) - 1
	level := int(v*float32(stripRows*steps) + 0.5)
	return levels[max(0, min(level-row*steps, steps))]
}

func (m Model) renderMarkers() string {
	cols := m.columns()
	line := []rune(strings.Repeat(" ", cols))

	startCol, endCol := m.markerColumn(m.region.Start, cols), m.markerColumn(m.region.End, cols)

	var b strings.Builder
	for col, r := range line {
		switch {
		case col == startCol && col == endCol:
			// both markers in one column
			b.WriteString(bothStyle.Render("◆"))
		case col == startCol:
			b.WriteString(startStyle.Render("▲"))
		case col == endCol:
			b.WriteString(endStyle.Render("▲"))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func (m Model) markerColumn(t float64, cols int) int {
	if m.duration <= 0 {
		return 0
	}
	col := int(t / m.duration * float64(cols))
	return max(0, min(col, cols-1))
}

func (m Model) renderControls() string {
	reversed := "off"
	if m.region.Reversed {
		reversed = "on"
	}

	return fmt.Sprintf("Loop:    %s - %s  (%s)\n",
		startStyle.Render(formatTime(m.region.Start)),
		endStyle.Render(formatTime(m.region.End)),
		formatTime(m.region.Length())) +
		fmt.Sprintf("Reverse: %s\n", reversed) +
		fmt.Sprintf("Pitch:   %+.1f st  (%s)\n", m.semitones, m.mode)
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errStyle.Render("error: " + m.err.Error())
	}
	return m.status
}

func (m Model) renderHelp() string {
	return helpStyle.Render("space:play/stop  ←/→:start  shift+←/→:end  r:reverse  ↑/↓:pitch  0:reset pitch  q:quit")
}

// formatTime renders seconds as m:ss.cc.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	cs := int((seconds - float64(whole)) * 100)
	return fmt.Sprintf("%d:%02d.%02d", whole/60, whole%60, cs)
}
