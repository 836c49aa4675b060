// Package game owns the repeat-the-sequence state machine: a growing
// random key sequence is played back as timed audio/visual cues, then the
// player must tap it back. Playback and hints run as cancellable
// goroutines; all shared state stays behind the manager's mutex.
package game

import (
	"context"
	"log"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// State is the current phase of a game.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateWaitingForInput
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWaitingForInput:
		return "waiting"
	case StateGameOver:
		return "gameover"
	default:
		return "idle"
	}
}

// Scoring selects how many points a completed round is worth.
type Scoring int

const (
	ScorePerRound Scoring = iota // +1 per completed round
	ScorePerKey                  // +key count per completed round
)

// noKey marks the highlight slot as empty.
const noKey = -1

// HighScoreKey is the score store key for the persisted high score.
const HighScoreKey = "high_score"

// Timings are the fixed cue durations. Tests shrink these to keep runs
// fast; gameplay always uses DefaultTimings.
type Timings struct {
	Lead      time.Duration // pause before sequence playback
	Tone      time.Duration // sequence tone length
	Gap       time.Duration // silence between sequence tones
	Tap       time.Duration // tone played for a player tap
	Flash     time.Duration // tap highlight pulse
	HintTone  time.Duration // tone length during the range sweep
	HintGap   time.Duration // silence between sweep tones
	HintPause time.Duration // pause between sweep and last-key replay
	HintLast  time.Duration // last-key replay tone length
}

// DefaultTimings returns the gameplay cue durations.
func DefaultTimings() Timings {
	return Timings{
		Lead:      500 * time.Millisecond,
		Tone:      400 * time.Millisecond,
		Gap:       200 * time.Millisecond,
		Tap:       300 * time.Millisecond,
		Flash:     150 * time.Millisecond,
		HintTone:  250 * time.Millisecond,
		HintGap:   100 * time.Millisecond,
		HintPause: 400 * time.Millisecond,
		HintLast:  400 * time.Millisecond,
	}
}

// TonePlayer plays synthesized tones on the shared output sink.
type TonePlayer interface {
	PlayTone(freq float64, d time.Duration)
	PlayToneWait(ctx context.Context, freq float64, d time.Duration)
}

// ScoreStore persists named integers for the high score.
type ScoreStore interface {
	LoadInteger(key string) int
	SaveInteger(key string, value int)
}

// Snapshot is the observable game state published to the renderer.
type Snapshot struct {
	State       State
	Score       int
	HighScore   int
	Round       int // completed rounds + 1 once a game has started
	Keys        int
	Highlighted int // key index currently lit, or -1
	HintActive  bool
	SoundOnly   bool
}

// Manager drives the game. All mutation happens under mu; long-running
// cue sequences run in goroutines that re-check their context before
// every highlight, tone, and sleep step.
type Manager struct {
	mu     sync.Mutex
	tones  TonePlayer
	store  ScoreStore
	logger *log.Logger

	scoring Scoring
	timings Timings

	freqs       []float64
	soundOnly   bool
	state       State
	sequence    []int
	playerIndex int
	score       int
	highScore   int
	highlighted int
	hintActive  bool
	flashSeq    int

	playCancel context.CancelFunc
	hintCancel context.CancelFunc

	notifyMu sync.Mutex
	notify   func(Snapshot)
}

// New creates a Manager. The stored high score is loaded immediately;
// a missing or unreadable store yields 0.
func New(tones TonePlayer, store ScoreStore, logger *log.Logger) *Manager {
	m := &Manager{
		tones:       tones,
		store:       store,
		logger:      logger,
		timings:     DefaultTimings(),
		highlighted: noKey,
		state:       StateIdle,
	}
	if store != nil {
		m.highScore = store.LoadInteger(HighScoreKey)
	}
	return m
}

// SetNotify installs the snapshot callback. Call before StartGame.
func (m *Manager) SetNotify(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = fn
}

// SetScoring selects the round scoring policy. Call before StartGame.
func (m *Manager) SetScoring(s Scoring) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoring = s
}

// SetTimings overrides the cue durations. Call before StartGame.
func (m *Manager) SetTimings(t Timings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = t
}

// StartGame resets all per-game state and begins the first round with the
// given ascending frequency table. In sound-only mode a range sweep plays
// before the first sequence so the player can hear the pitch span. An
// empty table is ignored.
func (m *Manager) StartGame(freqs []float64, soundOnly bool) {
	if len(freqs) == 0 {
		return
	}

	m.mu.Lock()
	m.cancelTasksLocked()
	m.freqs = slices.Clone(freqs)
	m.soundOnly = soundOnly
	m.sequence = nil
	m.playerIndex = 0
	m.score = 0
	m.highlighted = noKey
	m.hintActive = false
	m.state = StatePlaying
	m.appendKeyLocked()
	ctx := m.newPlaybackCtxLocked()
	seq := slices.Clone(m.sequence)
	m.mu.Unlock()

	m.logf("game: start keys=%d sound_only=%v", len(freqs), soundOnly)
	m.publish()
	go m.runPlayback(ctx, seq, soundOnly)
}

// Replay restarts the game with the same frequency table. Only valid
// after a game over.
func (m *Manager) Replay() {
	m.mu.Lock()
	if m.state != StateGameOver || len(m.freqs) == 0 {
		m.mu.Unlock()
		return
	}
	freqs := slices.Clone(m.freqs)
	soundOnly := m.soundOnly
	m.mu.Unlock()

	m.StartGame(freqs, soundOnly)
}

// HandleTap processes a player tap. Taps outside WaitingForInput and taps
// on indices past the frequency table are ignored.
func (m *Manager) HandleTap(key int) {
	m.mu.Lock()
	if m.state != StateWaitingForInput || key < 0 || key >= len(m.freqs) {
		m.mu.Unlock()
		return
	}

	m.tones.PlayTone(m.freqs[key], m.timings.Tap)
	if !m.soundOnly {
		m.flashLocked(key)
	}

	if key != m.sequence[m.playerIndex] {
		m.cancelTasksLocked()
		m.state = StateGameOver
		if m.score > m.highScore {
			m.highScore = m.score
			if m.store != nil {
				hs := m.highScore
				go m.store.SaveInteger(HighScoreKey, hs)
			}
		}
		score := m.score
		m.mu.Unlock()
		m.logf("game: over score=%d", score)
		m.publish()
		return
	}

	m.playerIndex++
	if m.playerIndex < len(m.sequence) {
		m.mu.Unlock()
		m.publish()
		return
	}

	// Round complete: award points and play the grown sequence.
	if m.scoring == ScorePerKey {
		m.score += len(m.freqs)
	} else {
		m.score++
	}
	m.cancelTasksLocked()
	m.state = StatePlaying
	m.appendKeyLocked()
	ctx := m.newPlaybackCtxLocked()
	seq := slices.Clone(m.sequence)
	score := m.score
	m.mu.Unlock()

	m.logf("game: round complete len=%d score=%d", len(seq)-1, score)
	m.publish()
	go m.runPlayback(ctx, seq, false)
}

// PlayHint sweeps every key in ascending pitch order, pauses, then
// replays the most recently added sequence key. Only valid while waiting
// for input; a running hint is cancelled and superseded. Game state is
// never altered.
func (m *Manager) PlayHint() {
	m.mu.Lock()
	if m.state != StateWaitingForInput {
		m.mu.Unlock()
		return
	}
	if m.hintCancel != nil {
		m.hintCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.hintCancel = cancel
	m.hintActive = true
	m.mu.Unlock()
	m.publish()

	go func() {
		m.sweepRange(ctx)
		m.mu.Lock()
		if ctx.Err() == nil {
			m.hintActive = false
			m.hintCancel = nil
			cancel()
		}
		m.mu.Unlock()
		m.publish()
	}()
}

// Quit cancels any running cue task and returns to Idle.
func (m *Manager) Quit() {
	m.mu.Lock()
	m.cancelTasksLocked()
	m.state = StateIdle
	m.sequence = nil
	m.playerIndex = 0
	m.score = 0
	m.highlighted = noKey
	m.hintActive = false
	m.mu.Unlock()
	m.publish()
}

// State returns the current game state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Score returns the current game score.
func (m *Manager) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score
}

// HighScore returns the best score seen by this manager.
func (m *Manager) HighScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highScore
}

// Sequence returns a copy of the current key sequence.
func (m *Manager) Sequence() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sequence)
}

// Snapshot returns the current observable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		State:       m.state,
		Score:       m.score,
		HighScore:   m.highScore,
		Round:       len(m.sequence),
		Keys:        len(m.freqs),
		Highlighted: m.highlighted,
		HintActive:  m.hintActive,
		SoundOnly:   m.soundOnly,
	}
}

// publish delivers a fresh snapshot to the notify callback. notifyMu
// keeps deliveries ordered so the renderer never regresses to a stale
// snapshot captured earlier by a slower goroutine.
func (m *Manager) publish() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	snap := m.snapshotLocked()
	fn := m.notify
	m.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func (m *Manager) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

func (m *Manager) appendKeyLocked() {
	m.sequence = append(m.sequence, rand.IntN(len(m.freqs)))
	m.playerIndex = 0
}

func (m *Manager) newPlaybackCtxLocked() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	m.playCancel = cancel
	return ctx
}

func (m *Manager) cancelTasksLocked() {
	if m.playCancel != nil {
		m.playCancel()
		m.playCancel = nil
	}
	if m.hintCancel != nil {
		m.hintCancel()
		m.hintCancel = nil
	}
	// A cancelled hint goroutine never clears its own flag, so the
	// canceller owns it.
	m.hintActive = false
}

// frequency returns the frequency for key, or 0 for an out-of-range
// index. The tone generator treats 0 as "play nothing".
func (m *Manager) frequency(key int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key < 0 || key >= len(m.freqs) {
		return 0
	}
	return m.freqs[key]
}

// highlightStep sets or clears the highlighted key from a cue task.
// Sound-only games never light keys; a cancelled task must not touch the
// highlight its successor may own.
func (m *Manager) highlightStep(ctx context.Context, key int) {
	m.mu.Lock()
	if ctx.Err() != nil || m.soundOnly {
		m.mu.Unlock()
		return
	}
	m.highlighted = key
	m.mu.Unlock()
	m.publish()
}

// flashLocked lights a tapped key for a short pulse. The sequence number
// keeps an expired pulse from clearing a newer highlight.
func (m *Manager) flashLocked(key int) {
	m.highlighted = key
	m.flashSeq++
	seq := m.flashSeq
	time.AfterFunc(m.timings.Flash, func() {
		m.mu.Lock()
		if m.flashSeq != seq || m.highlighted != key {
			m.mu.Unlock()
			return
		}
		m.highlighted = noKey
		m.mu.Unlock()
		m.publish()
	})
}

// runPlayback plays the sequence cues and hands control to the player.
// intro prepends the range sweep used to orient sound-only players.
func (m *Manager) runPlayback(ctx context.Context, seq []int, intro bool) {
	if intro && !m.sweepRange(ctx) {
		return
	}
	if !sleepCtx(ctx, m.timings.Lead) {
		return
	}

	for _, key := range seq {
		if ctx.Err() != nil {
			return
		}
		m.highlightStep(ctx, key)
		m.tones.PlayToneWait(ctx, m.frequency(key), m.timings.Tone)
		m.highlightStep(ctx, noKey)
		if !sleepCtx(ctx, m.timings.Gap) {
			return
		}
	}

	m.mu.Lock()
	if ctx.Err() != nil || m.state != StatePlaying {
		m.mu.Unlock()
		return
	}
	m.playerIndex = 0
	m.state = StateWaitingForInput
	m.mu.Unlock()
	m.publish()
}

// sweepRange plays every key in ascending pitch order, pauses, then
// replays the newest sequence key. Returns false if cancelled.
func (m *Manager) sweepRange(ctx context.Context) bool {
	m.mu.Lock()
	keyCount := len(m.freqs)
	last := noKey
	if len(m.sequence) > 0 {
		last = m.sequence[len(m.sequence)-1]
	}
	m.mu.Unlock()

	for key := 0; key < keyCount; key++ {
		if ctx.Err() != nil {
			return false
		}
		m.highlightStep(ctx, key)
		m.tones.PlayToneWait(ctx, m.frequency(key), m.timings.HintTone)
		m.highlightStep(ctx, noKey)
		if !sleepCtx(ctx, m.timings.HintGap) {
			return false
		}
	}

	if !sleepCtx(ctx, m.timings.HintPause) {
		return false
	}

	if last != noKey {
		if ctx.Err() != nil {
			return false
		}
		m.highlightStep(ctx, last)
		m.tones.PlayToneWait(ctx, m.frequency(last), m.timings.HintLast)
		m.highlightStep(ctx, noKey)
	}
	return ctx.Err() == nil
}

// sleepCtx sleeps for d or until ctx is cancelled. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
