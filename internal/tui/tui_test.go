package tui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cbarrett/pitchback/internal/config"
	"github.com/cbarrett/pitchback/internal/game"
)

// mockController records which game operations the TUI forwarded.
type mockController struct {
	started bool
	replays int
	taps    []int
	hints   int
	quits   int
}

func (c *mockController) StartGame(freqs []float64, soundOnly bool) { c.started = true }
func (c *mockController) Replay()                                   { c.replays++ }
func (c *mockController) HandleTap(key int)                         { c.taps = append(c.taps, key) }
func (c *mockController) PlayHint()                                 { c.hints++ }
func (c *mockController) Quit()                                     { c.quits++ }

var testFreqs = []float64{261.63, 293.66, 329.63, 349.23}

func newTestModel(ctrl Controller) Model {
	cfg := config.Default()
	return NewModel(cfg, ctrl, testFreqs, false, log.New(io.Discard, "", 0), false)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialState(t *testing.T) {
	m := newTestModel(&mockController{})
	if m.Snapshot.State != game.StateIdle {
		t.Errorf("expected idle snapshot, got %v", m.Snapshot.State)
	}
}

func TestStateMsgUpdatesSnapshot(t *testing.T) {
	m := newTestModel(&mockController{})
	snap := game.Snapshot{State: game.StateWaitingForInput, Score: 3, HighScore: 7, Keys: 4, Highlighted: -1}
	updated, _ := m.Update(StateMsg{Snapshot: snap})
	model := updated.(Model)
	if model.Snapshot.State != game.StateWaitingForInput {
		t.Errorf("expected waiting state, got %v", model.Snapshot.State)
	}
	if model.Snapshot.Score != 3 || model.Snapshot.HighScore != 7 {
		t.Errorf("expected score 3 / best 7, got %d / %d", model.Snapshot.Score, model.Snapshot.HighScore)
	}
}

func TestDigitKeyForwardsTap(t *testing.T) {
	ctrl := &mockController{}
	m := newTestModel(ctrl)

	m.Update(keyMsg("1"))
	m.Update(keyMsg("4"))
	m.Update(keyMsg("0"))

	want := []int{0, 3, 9}
	if len(ctrl.taps) != len(want) {
		t.Fatalf("expected %d taps, got %v", len(want), ctrl.taps)
	}
	for i, k := range want {
		if ctrl.taps[i] != k {
			t.Errorf("tap %d: expected key %d, got %d", i, k, ctrl.taps[i])
		}
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	ctrl := &mockController{}
	m := newTestModel(ctrl)
	m.Update(keyMsg("z"))
	if len(ctrl.taps) != 0 {
		t.Errorf("expected no taps for unbound key, got %v", ctrl.taps)
	}
}

func TestStartKeyStartsGame(t *testing.T) {
	ctrl := &mockController{}
	m := newTestModel(ctrl)
	m.Update(keyMsg("n"))
	if !ctrl.started {
		t.Error("expected n to start a game")
	}
}

func TestStartKeyReplaysAfterGameOver(t *testing.T) {
	ctrl := &mockController{}
	m := newTestModel(ctrl)
	m.Snapshot.State = game.StateGameOver
	m.Update(keyMsg("n"))
	if ctrl.started {
		t.Error("expected replay instead of a fresh start after game over")
	}
	if ctrl.replays != 1 {
		t.Errorf("expected 1 replay, got %d", ctrl.replays)
	}
}

func TestHintKeyForwardsHint(t *testing.T) {
	ctrl := &mockController{}
	m := newTestModel(ctrl)
	m.Update(keyMsg("h"))
	if ctrl.hints != 1 {
		t.Errorf("expected 1 hint, got %d", ctrl.hints)
	}
}

func TestQuitKeyQuitsGameAndProgram(t *testing.T) {
	ctrl := &mockController{}
	m := newTestModel(ctrl)
	_, cmd := m.Update(keyMsg("q"))
	if ctrl.quits != 1 {
		t.Errorf("expected 1 quit, got %d", ctrl.quits)
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestViewContainsTitle(t *testing.T) {
	m := newTestModel(&mockController{})
	if !strings.Contains(m.View(), "PITCHBACK") {
		t.Error("expected view to contain 'PITCHBACK'")
	}
}

func TestViewShowsIdleBadge(t *testing.T) {
	m := newTestModel(&mockController{})
	if !strings.Contains(m.View(), "Idle") {
		t.Error("expected view to contain 'Idle'")
	}
}

func TestViewShowsYourTurnBadge(t *testing.T) {
	m := newTestModel(&mockController{})
	m.Snapshot = game.Snapshot{State: game.StateWaitingForInput, Keys: 4, Highlighted: -1}
	if !strings.Contains(m.View(), "Your turn") {
		t.Error("expected view to contain 'Your turn'")
	}
}

func TestViewShowsGameOverBadge(t *testing.T) {
	m := newTestModel(&mockController{})
	m.Snapshot = game.Snapshot{State: game.StateGameOver, Keys: 4, Highlighted: -1}
	if !strings.Contains(m.View(), "Game over") {
		t.Error("expected view to contain 'Game over'")
	}
}

func TestViewShowsScores(t *testing.T) {
	m := newTestModel(&mockController{})
	m.Snapshot = game.Snapshot{State: game.StateWaitingForInput, Score: 12, HighScore: 34, Keys: 4, Highlighted: -1}
	view := m.View()
	if !strings.Contains(view, "12") {
		t.Error("expected view to contain score 12")
	}
	if !strings.Contains(view, "34") {
		t.Error("expected view to contain best 34")
	}
}

func TestViewShowsSoundOnlyIndicator(t *testing.T) {
	m := newTestModel(&mockController{})
	m.Snapshot = game.Snapshot{State: game.StatePlaying, Keys: 4, Highlighted: -1, SoundOnly: true}
	if !strings.Contains(m.View(), "sound only") {
		t.Error("expected view to contain sound-only indicator")
	}
}

func TestViewRendersKeyLabels(t *testing.T) {
	m := newTestModel(&mockController{})
	view := m.View()
	for _, label := range []string{"1", "2", "3", "4"} {
		if !strings.Contains(view, label) {
			t.Errorf("expected view to contain key label %q", label)
		}
	}
}

func TestThemeKeyCyclesTheme(t *testing.T) {
	m := newTestModel(&mockController{})
	before := m.themeName
	updated, _ := m.Update(keyMsg("t"))
	model := updated.(Model)
	if model.themeName == before {
		t.Errorf("expected theme to change from %s", before)
	}
}

func TestDebugLogMsgAddsEntry(t *testing.T) {
	m := newTestModel(&mockController{})
	entry := DebugEntry{Time: "11:00:00", Category: "game", Message: "hello"}
	updated, _ := m.Update(DebugLogMsg{Entry: entry})
	model := updated.(Model)
	if len(model.DebugEntries) != 1 {
		t.Fatalf("expected 1 debug entry, got %d", len(model.DebugEntries))
	}
	if model.DebugEntries[0].Message != "hello" {
		t.Errorf("expected 'hello', got %q", model.DebugEntries[0].Message)
	}
}

func TestDebugLogTruncatesToMax(t *testing.T) {
	m := newTestModel(&mockController{})
	for i := 0; i < maxDebugLines+10; i++ {
		entry := DebugEntry{Time: "11:00:00", Category: "debug", Message: fmt.Sprintf("line %d", i)}
		updated, _ := m.Update(DebugLogMsg{Entry: entry})
		m = updated.(Model)
	}
	if len(m.DebugEntries) != maxDebugLines {
		t.Errorf("expected %d debug entries, got %d", maxDebugLines, len(m.DebugEntries))
	}
	if m.DebugEntries[0].Message != "line 10" {
		t.Errorf("expected oldest message to be 'line 10', got %q", m.DebugEntries[0].Message)
	}
}

func TestViewShowsDebugPanel(t *testing.T) {
	m := newTestModel(&mockController{})
	entry := DebugEntry{Time: "11:00:00", Category: "game", Message: "test message"}
	updated, _ := m.Update(DebugLogMsg{Entry: entry})
	model := updated.(Model)
	view := model.View()
	if !strings.Contains(view, "Debug") {
		t.Error("expected view to contain 'Debug' panel title")
	}
	if !strings.Contains(view, "test message") {
		t.Error("expected view to contain debug message")
	}
}

func TestViewHidesDebugPanelWhenEmpty(t *testing.T) {
	m := newTestModel(&mockController{})
	if strings.Contains(m.View(), "Debug") {
		t.Error("expected view to NOT contain 'Debug' panel when no debug lines")
	}
}

func TestParseLineStructured(t *testing.T) {
	entry := parseLine("[DEBUG] 11:27:53.777842 game: start keys=8 sound_only=false")
	if entry.Time != "11:27:53.777842" {
		t.Errorf("expected time '11:27:53.777842', got %q", entry.Time)
	}
	if entry.Category != "game" {
		t.Errorf("expected category 'game', got %q", entry.Category)
	}
	if entry.Message != "game: start keys=8 sound_only=false" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseLineWithoutCategory(t *testing.T) {
	entry := parseLine("[DEBUG] 11:27:53 plain message here")
	if entry.Category != "debug" {
		t.Errorf("expected fallback category 'debug', got %q", entry.Category)
	}
}

func TestTapIndexMapping(t *testing.T) {
	if got := tapIndex("1"); got != 0 {
		t.Errorf("expected 1 -> 0, got %d", got)
	}
	if got := tapIndex("0"); got != 9 {
		t.Errorf("expected 0 -> 9, got %d", got)
	}
	if got := tapIndex("x"); got != -1 {
		t.Errorf("expected x -> -1, got %d", got)
	}
	if got := tapIndex("enter"); got != -1 {
		t.Errorf("expected multi-rune key -> -1, got %d", got)
	}
}

func TestPianoLayoutRenders(t *testing.T) {
	cfg := config.Default()
	cfg.Game.Layout = "piano"
	m := NewModel(cfg, &mockController{}, testFreqs, false, log.New(io.Discard, "", 0), false)
	m.Snapshot = game.Snapshot{State: game.StateWaitingForInput, Keys: 4, Highlighted: 1}
	if !strings.Contains(m.View(), "█") {
		t.Error("expected piano layout to draw key bars")
	}
}
