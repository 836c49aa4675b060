package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cbarrett/pitchback/internal/game"
)

// Styles, repointed at the active theme by applyTheme.
var (
	titleStyle   lipgloss.Style
	borderStyle  lipgloss.Style
	labelStyle   lipgloss.Style
	scoreStyle   lipgloss.Style
	helpStyle    lipgloss.Style
	bodyStyle    lipgloss.Style
	idleBadge    lipgloss.Style
	listenBadge  lipgloss.Style
	turnBadge    lipgloss.Style
	overBadge    lipgloss.Style
	hintBadge    lipgloss.Style
	keyIdleStyle lipgloss.Style
	keyLitStyle  lipgloss.Style

	debugTitleStyle    lipgloss.Style
	debugRuleStyle     lipgloss.Style
	debugTimeStyle     lipgloss.Style
	debugCategoryStyle lipgloss.Style
	debugMsgStyle      lipgloss.Style
)

// applyTheme updates all TUI style variables to use the given theme's colors.
func applyTheme(t Theme) {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Background(t.Background).
		MarginBottom(1)

	borderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(1, 2).
		Background(t.Background)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Background(t.Background).
		Bold(true)

	scoreStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Background).
		Bold(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background)

	bodyStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Background)

	idleBadge = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background).
		Bold(true)

	listenBadge = lipgloss.NewStyle().
		Foreground(t.Warning).
		Background(t.Background).
		Bold(true)

	turnBadge = lipgloss.NewStyle().
		Foreground(t.Success).
		Background(t.Background).
		Bold(true)

	overBadge = lipgloss.NewStyle().
		Foreground(t.Error).
		Background(t.Background).
		Bold(true)

	hintBadge = lipgloss.NewStyle().
		Foreground(t.Warning).
		Background(t.Background)

	keyIdleStyle = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background)

	keyLitStyle = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Primary).
		Bold(true)

	debugTitleStyle = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background).
		Bold(true)

	debugRuleStyle = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background)

	debugTimeStyle = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background)

	debugCategoryStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Background(t.Background)

	debugMsgStyle = lipgloss.NewStyle().
		Foreground(t.Dimmed).
		Background(t.Background)
}

// panelWidth is the total outer width of the main panel.
// borderStyle has: border (1+1) = 2, padding (2+2) = 4, total chrome = 6.
const panelWidth = 72
const panelWidthForStyle = panelWidth - 2 // passed to borderStyle.Width()
const panelContentWidth = panelWidth - 6  // actual usable text area

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	titleText := "  PITCHBACK  "
	barTotal := panelContentWidth - len(titleText)
	barLeft := barTotal / 2
	barRight := barTotal - barLeft
	title := strings.Repeat("▓", barLeft) + titleText + strings.Repeat("▓", barRight)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Status:  "))
	b.WriteString(m.renderBadge())
	if m.Snapshot.HintActive {
		b.WriteString(bodyStyle.Render("  "))
		b.WriteString(hintBadge.Render("♪ hint"))
	}
	if m.Snapshot.SoundOnly {
		b.WriteString(bodyStyle.Render("  "))
		b.WriteString(helpStyle.Render("(sound only)"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderKeys())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Score: "))
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%d", m.Snapshot.Score)))
	b.WriteString(bodyStyle.Render("   "))
	b.WriteString(labelStyle.Render("Best: "))
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%d", m.Snapshot.HighScore)))
	if m.Snapshot.Round > 0 {
		b.WriteString(bodyStyle.Render("   "))
		b.WriteString(labelStyle.Render("Round: "))
		b.WriteString(scoreStyle.Render(fmt.Sprintf("%d", m.Snapshot.Round)))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("n: new game  1-0: tap key  h: hint  t: theme  q: quit"))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return borderStyle.Width(panelWidthForStyle).Render(b.String())
}

func (m Model) renderBadge() string {
	switch m.Snapshot.State {
	case game.StatePlaying:
		return listenBadge.Render("● Listen...")
	case game.StateWaitingForInput:
		return turnBadge.Render("● Your turn")
	case game.StateGameOver:
		return overBadge.Render("● Game over — n to retry")
	default:
		return idleBadge.Render("● Idle — n to start")
	}
}

// renderKeys draws the tappable keys. Sound-only playback still shows the
// key row so the player knows the bindings; it just never lights up
// during cue playback.
func (m Model) renderKeys() string {
	count := m.keyCount()
	if count == 0 {
		return helpStyle.Render("(no keys)")
	}

	if m.Config != nil && m.Config.Game.Layout == "piano" {
		return m.renderPiano(count)
	}
	return m.renderStrip(count)
}

func (m Model) renderStrip(count int) string {
	cells := make([]string, 0, count)
	for i := 0; i < count; i++ {
		cell := fmt.Sprintf("  %s  ", keyLabel(i))
		if i == m.Snapshot.Highlighted {
			cells = append(cells, keyLitStyle.Render(cell))
		} else {
			cells = append(cells, keyIdleStyle.Render(cell))
		}
	}
	return strings.Join(cells, bodyStyle.Render(" "))
}

func (m Model) renderPiano(count int) string {
	const keyHeight = 3
	var rows [keyHeight + 1]strings.Builder

	for i := 0; i < count; i++ {
		style := keyIdleStyle
		if i == m.Snapshot.Highlighted {
			style = keyLitStyle
		}
		for r := 0; r < keyHeight; r++ {
			rows[r].WriteString(style.Render("▐███▌"))
			rows[r].WriteString(bodyStyle.Render(" "))
		}
		rows[keyHeight].WriteString(bodyStyle.Render(fmt.Sprintf("  %s   ", keyLabel(i))))
	}

	lines := make([]string, 0, keyHeight+1)
	for i := range rows {
		lines = append(lines, rows[i].String())
	}
	return strings.Join(lines, "\n")
}

// keyLabel returns the keyboard character bound to key index i.
func keyLabel(i int) string {
	if i < 0 || i >= len(keyRunes) {
		return "·"
	}
	return string(keyRunes[i])
}

func (m Model) keyCount() int {
	if m.Snapshot.Keys > 0 {
		return m.Snapshot.Keys
	}
	return len(m.Freqs)
}

const debugPanelMaxLines = 5

// Debug table column widths. Row content must fit within panelContentWidth.
const (
	colTimeWidth     = 15
	colCategoryWidth = 8
	colSepWidth      = 3 // " │ "
	colMsgWidth      = panelContentWidth - colTimeWidth - colCategoryWidth - colSepWidth*2
)

func (m Model) renderDebugPanel() string {
	sep := debugRuleStyle.Render(" │ ")
	rule := debugRuleStyle.Render(strings.Repeat("─", panelContentWidth))

	var db strings.Builder

	db.WriteString(debugTitleStyle.Render("Debug"))
	db.WriteString("\n")
	db.WriteString(rule)

	entries := m.DebugEntries
	if len(entries) > debugPanelMaxLines {
		entries = entries[len(entries)-debugPanelMaxLines:]
	}
	for _, entry := range entries {
		timeStr := entry.Time
		if len(timeStr) > colTimeWidth {
			timeStr = timeStr[:colTimeWidth]
		}

		cat := entry.Category
		if len(cat) > colCategoryWidth {
			cat = cat[:colCategoryWidth]
		}

		msg := entry.Message
		if len(msg) > colMsgWidth {
			msg = msg[:colMsgWidth-3] + "..."
		}

		db.WriteString("\n")
		db.WriteString(
			debugTimeStyle.Width(colTimeWidth).Render(timeStr) +
				sep +
				debugCategoryStyle.Width(colCategoryWidth).Render(cat) +
				sep +
				debugMsgStyle.Width(colMsgWidth).Render(msg))
	}

	return db.String()
}
