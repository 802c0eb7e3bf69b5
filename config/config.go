package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-notefall/player"
)

const appName = "go-notefall"

// PlaybackConfig holds scheduler settings
type PlaybackConfig struct {
	Speed          float64 `json:"speed"`
	Headroom       float64 `json:"headroom"`       // seconds before the first note
	ReleaseEpsilon float64 `json:"releaseEpsilon"` // early release, seconds
}

// AudioConfig defines the MIDI output used for note sounds
type AudioConfig struct {
	PortName   string `json:"portName,omitempty"`
	Channel    uint8  `json:"channel"` // 0-15
	Velocity   uint8  `json:"velocity"`
	NoteSounds bool   `json:"noteSounds"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette   string  `json:"palette,omitempty"` // GIMP .gpl path, empty = built in
	Lookahead float64 `json:"lookahead"`         // seconds of notes shown above the keyboard
	LastFile  string  `json:"lastFile,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Playback PlaybackConfig `json:"playback"`
	Audio    AudioConfig    `json:"audio"`
	UI       UIConfig       `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	p := player.DefaultConfig()
	return &Config{
		Playback: PlaybackConfig{
			Speed:          p.Speed,
			Headroom:       p.Headroom,
			ReleaseEpsilon: p.ReleaseEpsilon,
		},
		Audio: AudioConfig{
			Channel:    0,
			Velocity:   96,
			NoteSounds: true,
		},
		UI: UIConfig{
			Lookahead: 4,
		},
	}
}

// Player returns the scheduler settings
func (c *Config) Player() player.Config {
	return player.Config{
		Headroom:       c.Playback.Headroom,
		ReleaseEpsilon: c.Playback.ReleaseEpsilon,
		Speed:          c.Playback.Speed,
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Missing fields keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
