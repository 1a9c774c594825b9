package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"beatmaker/sequencer"
)

// EnvPath overrides the config file location
const EnvPath = "BEATMAKER_CONFIG"

// EnvDebug turns on the debug log when set to a non-empty value
const EnvDebug = "BEATMAKER_DEBUG"

// MIDIConfig defines the trigger output
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  int    `json:"channel,omitempty"` // 1-16, defaults to 10
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastTempo int `json:"lastTempo,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MIDI        MIDIConfig `json:"midi,omitempty"`
	Kit         string     `json:"kit,omitempty"`
	UI          UIConfig   `json:"ui,omitempty"`
	LibraryDir  string     `json:"libraryDir,omitempty"`
	LessonsFile string     `json:"lessonsFile,omitempty"`
	Palette     string     `json:"palette,omitempty"`
	Debug       bool       `json:"debug,omitempty"`

	path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{
			Channel: 10,
		},
		Kit: sequencer.DefaultKit,
		UI: UIConfig{
			LastTempo: sequencer.DefaultTempo,
		},
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "beatmaker"), nil
}

// Path returns the full path to config.json, honouring BEATMAKER_CONFIG
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
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
	return LoadFile(path)
}

// LoadFile reads a specific config file; a missing file yields defaults
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fixes out-of-range values in place
func (c *Config) Normalize() {
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		c.MIDI.Channel = 10
	}
	if _, ok := sequencer.Kits[c.Kit]; !ok {
		c.Kit = sequencer.DefaultKit
	}
	if c.UI.LastTempo == 0 {
		c.UI.LastTempo = sequencer.DefaultTempo
	}
	c.UI.LastTempo = sequencer.ClampTempo(c.UI.LastTempo)
}

// MIDIChannel returns the zero-based output channel
func (c *Config) MIDIChannel() uint8 {
	return uint8(c.MIDI.Channel - 1)
}

// Library returns the library root, defaulting to the config directory
func (c *Config) Library() (string, error) {
	if c.LibraryDir != "" {
		return c.LibraryDir, nil
	}
	if c.path != "" {
		return filepath.Dir(c.path), nil
	}
	return Dir()
}

// Save writes the config back to where it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DebugEnabled reports whether the debug log should be on
func (c *Config) DebugEnabled() bool {
	return c.Debug || os.Getenv(EnvDebug) != ""
}
