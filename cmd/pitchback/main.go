package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cbarrett/pitchback/internal/config"
	"github.com/cbarrett/pitchback/internal/export"
	"github.com/cbarrett/pitchback/internal/game"
	"github.com/cbarrett/pitchback/internal/scale"
	"github.com/cbarrett/pitchback/internal/score"
	"github.com/cbarrett/pitchback/internal/tone"
	"github.com/cbarrett/pitchback/internal/tui"
)

func main() {
	// Handle export subcommand before flag parsing
	if len(os.Args) > 1 && os.Args[1] == "export" {
		handleExport(os.Args[2:])
		return
	}

	debug := flag.Bool("debug", false, "enable debug logging to the TUI debug panel")
	keys := flag.Int("keys", 0, "number of playable keys (overrides config)")
	soundOnly := flag.Bool("sound-only", false, "suppress key highlighting during playback")
	flag.Parse()

	var dbg *log.Logger
	if *debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	keyCount := cfg.Game.KeyCount
	if *keys > 0 {
		keyCount = *keys
	}
	useSoundOnly := cfg.Game.SoundOnly || *soundOnly

	freqs := scale.Frequencies(keyCount, cfg.Scale.BaseFrequency, cfg.Scale.Mode)
	if freqs == nil {
		log.Fatalf("invalid key count %d or base frequency %f", keyCount, cfg.Scale.BaseFrequency)
	}

	gen := tone.New(cfg.Audio.Enabled, dbg)
	store := score.NewFileStore(score.DefaultPath(), dbg)

	mgr := game.New(gen, store, dbg)
	if cfg.Game.Scoring == "keys" {
		mgr.SetScoring(game.ScorePerKey)
	}

	model := tui.NewModel(cfg, mgr, freqs, useSoundOnly, dbg, *debug)
	p := tea.NewProgram(model, tea.WithAltScreen())

	mgr.SetNotify(func(s game.Snapshot) {
		p.Send(tui.StateMsg{Snapshot: s})
	})

	// When debug is enabled, redirect logger output into the TUI debug panel
	if *debug {
		dbg.SetOutput(tui.NewLogWriter(p))
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}

	mgr.Quit()
}

func handleExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dir := fs.String("dir", "", "output directory (overrides config)")
	keys := fs.Int("keys", 0, "number of keys to export (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	outDir := cfg.Export.Dir
	if *dir != "" {
		outDir = *dir
	}
	if outDir == "" {
		outDir = "tones"
	}

	keyCount := cfg.Game.KeyCount
	if *keys > 0 {
		keyCount = *keys
	}

	freqs := scale.Frequencies(keyCount, cfg.Scale.BaseFrequency, cfg.Scale.Mode)
	if freqs == nil {
		log.Fatalf("invalid key count %d or base frequency %f", keyCount, cfg.Scale.BaseFrequency)
	}

	toneDur := game.DefaultTimings().Tone
	if err := export.WriteScale(outDir, freqs, toneDur, cfg.Export.SampleRate); err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Printf("Wrote %d key tones to %s (%d Hz, %v each)\n", len(freqs), outDir, cfg.Export.SampleRate, toneDur)
}
