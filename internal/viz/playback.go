package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/tbsim/internal/report"
	"github.com/san-kum/tbsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

type tickMsg time.Time

type model struct {
	frames  [][]float64
	times   []float64
	frame   int
	playing bool
	every   time.Duration
}

func newModel(result *sim.Result, fps int) model {
	if fps <= 0 {
		fps = 30
	}
	return model{
		frames:  result.Distributions,
		times:   result.Times,
		playing: true,
		every:   time.Second / time.Duration(fps),
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.playing {
			if m.frame < len(m.frames)-1 {
				m.frame++
			} else {
				m.playing = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		if !m.playing && m.frame == len(m.frames)-1 {
			m.frame = 0
		}
		m.playing = !m.playing
	case "right", "l":
		m.playing = false
		if m.frame < len(m.frames)-1 {
			m.frame++
		}
	case "left", "h":
		m.playing = false
		if m.frame > 0 {
			m.frame--
		}
	case "home", "g":
		m.frame = 0
	}
	return m, nil
}

func (m model) View() string {
	if len(m.frames) == 0 {
		return "no frames\n"
	}
	dist := m.frames[m.frame]

	status := pausedStyle.Render("PAUSED")
	if m.playing {
		status = playingStyle.Render("PLAYING")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tight-binding evolution") + "  " + status + "\n\n")
	b.WriteString(strings.Join([]string{
		metric("frame", fmt.Sprintf("%d/%d", m.frame+1, len(m.frames))),
		metric("t", fmt.Sprintf("%.3f", m.times[m.frame])),
		metric("peak", fmt.Sprintf("%.4f", floats.Max(dist))),
		metric("norm", fmt.Sprintf("%.6f", floats.Sum(dist))),
	}, "   ") + "\n")
	b.WriteString(panelStyle.Render(report.PlotDistribution(dist, m.times[m.frame])) + "\n")
	b.WriteString(hintStyle.Render("space play/pause · ←/→ step · home rewind · q quit") + "\n")
	return b.String()
}

// Run plays result.Distributions at fps frames per second until the user
// quits.
func Run(result *sim.Result, fps int) error {
	_, err := tea.NewProgram(newModel(result, fps), tea.WithAltScreen()).Run()
	return err
}
