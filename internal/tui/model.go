package tui

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cbarrett/pitchback/internal/config"
	"github.com/cbarrett/pitchback/internal/game"
)

// Controller is the slice of the game manager the TUI drives.
type Controller interface {
	StartGame(freqs []float64, soundOnly bool)
	Replay()
	HandleTap(key int)
	PlayHint()
	Quit()
}

// keyRunes maps keyboard characters to key indices: digit row order,
// with 0 as the tenth key.
const keyRunes = "1234567890"

// Messages sent through the Bubble Tea update loop.

// StateMsg carries a fresh game snapshot from the manager.
type StateMsg struct {
	Snapshot game.Snapshot
}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time     string // e.g. "11:27:53"
	Category string // e.g. "game", "tone"
	Message  string // the log message
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

const maxDebugLines = 50

// Model is the Bubble Tea model for the pitchback TUI.
type Model struct {
	Snapshot     game.Snapshot
	Game         Controller
	Config       *config.Config
	Freqs        []float64
	SoundOnly    bool
	DebugMode    bool
	DebugEntries []DebugEntry
	Logger       *log.Logger

	themeName string
}

// NewModel creates a new TUI model.
func NewModel(cfg *config.Config, ctrl Controller, freqs []float64, soundOnly bool, logger *log.Logger, debug bool) Model {
	theme := LoadTheme(cfg.Theme)
	applyTheme(theme)
	return Model{
		Game:      ctrl,
		Config:    cfg,
		Freqs:     freqs,
		SoundOnly: soundOnly,
		Logger:    logger,
		DebugMode: debug,
		themeName: theme.Name,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and forwards player actions into the game.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			if m.Game != nil {
				m.Game.Quit()
			}
			return m, tea.Quit

		case "n", "enter":
			if m.Game != nil {
				if m.Snapshot.State == game.StateGameOver {
					m.Game.Replay()
				} else {
					m.Game.StartGame(m.Freqs, m.SoundOnly)
				}
			}
			return m, nil

		case "h":
			if m.Game != nil {
				m.Game.PlayHint()
			}
			return m, nil

		case "t":
			theme := NextTheme(strings.ToLower(m.themeName))
			applyTheme(theme)
			m.themeName = theme.Name
			return m, nil

		default:
			if idx := tapIndex(key); idx >= 0 && m.Game != nil {
				m.Game.HandleTap(idx)
			}
			return m, nil
		}

	case StateMsg:
		m.Snapshot = msg.Snapshot
		return m, nil

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
		return m, nil
	}

	return m, nil
}

// tapIndex maps a pressed key to a game key index, or -1.
func tapIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	return strings.Index(keyRunes, key)
}
