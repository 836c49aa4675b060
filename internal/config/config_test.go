package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Theme != "synthwave" {
		t.Errorf("expected theme synthwave, got %s", cfg.Theme)
	}
	if cfg.Game.KeyCount != 8 {
		t.Errorf("expected key count 8, got %d", cfg.Game.KeyCount)
	}
	if cfg.Game.SoundOnly {
		t.Error("expected sound-only disabled by default")
	}
	if cfg.Game.Scoring != "round" {
		t.Errorf("expected scoring round, got %s", cfg.Game.Scoring)
	}
	if cfg.Game.Layout != "strip" {
		t.Errorf("expected layout strip, got %s", cfg.Game.Layout)
	}
	if !cfg.Audio.Enabled {
		t.Error("expected audio enabled by default")
	}
	if cfg.Scale.BaseFrequency != 261.63 {
		t.Errorf("expected base frequency 261.63, got %f", cfg.Scale.BaseFrequency)
	}
	if cfg.Scale.Mode != "major" {
		t.Errorf("expected scale mode major, got %s", cfg.Scale.Mode)
	}
	if cfg.Export.SampleRate != 44100 {
		t.Errorf("expected export sample rate 44100, got %d", cfg.Export.SampleRate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Game.KeyCount != 8 {
		t.Errorf("expected default key count 8, got %d", cfg.Game.KeyCount)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
theme = "gruvbox"

[game]
key_count = 10
sound_only = true
scoring = "keys"
layout = "piano"

[audio]
enabled = false

[scale]
base_frequency = 220.0
mode = "chromatic"

[export]
dir = "/tmp/tones"
sample_rate = 16000
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Theme != "gruvbox" {
		t.Errorf("expected gruvbox, got %s", cfg.Theme)
	}
	if cfg.Game.KeyCount != 10 {
		t.Errorf("expected 10, got %d", cfg.Game.KeyCount)
	}
	if !cfg.Game.SoundOnly {
		t.Error("expected sound-only enabled")
	}
	if cfg.Game.Scoring != "keys" {
		t.Errorf("expected keys, got %s", cfg.Game.Scoring)
	}
	if cfg.Game.Layout != "piano" {
		t.Errorf("expected piano, got %s", cfg.Game.Layout)
	}
	if cfg.Audio.Enabled {
		t.Error("expected audio disabled")
	}
	if cfg.Scale.BaseFrequency != 220.0 {
		t.Errorf("expected 220.0, got %f", cfg.Scale.BaseFrequency)
	}
	if cfg.Scale.Mode != "chromatic" {
		t.Errorf("expected chromatic, got %s", cfg.Scale.Mode)
	}
	if cfg.Export.Dir != "/tmp/tones" {
		t.Errorf("expected /tmp/tones, got %s", cfg.Export.Dir)
	}
	if cfg.Export.SampleRate != 16000 {
		t.Errorf("expected 16000, got %d", cfg.Export.SampleRate)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Theme = "everforest"
	cfg.Game.KeyCount = 12

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}

	if loaded.Theme != "everforest" {
		t.Errorf("expected theme everforest, got %s", loaded.Theme)
	}
	if loaded.Game.KeyCount != 12 {
		t.Errorf("expected key count 12, got %d", loaded.Game.KeyCount)
	}
	if loaded.Scale.BaseFrequency != 261.63 {
		t.Errorf("expected default base frequency preserved, got %f", loaded.Scale.BaseFrequency)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.toml")

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[game]
key_count = 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Game.KeyCount != 5 {
		t.Errorf("expected 5, got %d", cfg.Game.KeyCount)
	}
	// Non-overridden values should remain defaults
	if cfg.Game.Scoring != "round" {
		t.Errorf("expected default scoring round, got %s", cfg.Game.Scoring)
	}
	if !cfg.Audio.Enabled {
		t.Error("expected default audio enabled")
	}
}
