package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GameConfig holds gameplay settings.
type GameConfig struct {
	KeyCount  int    `toml:"key_count"`
	SoundOnly bool   `toml:"sound_only"`
	Scoring   string `toml:"scoring"` // "round" (+1 per round) or "keys" (+key count per round)
	Layout    string `toml:"layout"`  // "strip" or "piano"
}

// AudioConfig holds audio output settings.
type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// ScaleConfig holds frequency table settings.
type ScaleConfig struct {
	BaseFrequency float64 `toml:"base_frequency"`
	Mode          string  `toml:"mode"` // "major" or "chromatic"
}

// ExportConfig holds settings for the WAV export subcommand.
type ExportConfig struct {
	Dir        string `toml:"dir"`
	SampleRate int    `toml:"sample_rate"`
}

// Config is the top-level configuration.
type Config struct {
	Theme  string       `toml:"theme"`
	Game   GameConfig   `toml:"game"`
	Audio  AudioConfig  `toml:"audio"`
	Scale  ScaleConfig  `toml:"scale"`
	Export ExportConfig `toml:"export"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Theme: "synthwave",
		Game: GameConfig{
			KeyCount:  8,
			SoundOnly: false,
			Scoring:   "round",
			Layout:    "strip",
		},
		Audio: AudioConfig{
			Enabled: true,
		},
		Scale: ScaleConfig{
			BaseFrequency: 261.63,
			Mode:          "major",
		},
		Export: ExportConfig{
			Dir:        "",
			SampleRate: 44100,
		},
	}
}

// DefaultPath returns the default config file path (~/.config/pitchback/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pitchback", "config.toml")
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pitchback-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
