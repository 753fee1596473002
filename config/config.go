package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Scan           ScanConfig      `yaml:"scan"`
	CustomCommands []CustomCommand `yaml:"custom_commands"`
}

// ScanConfig holds scan defaults applied when the matching flags are absent.
type ScanConfig struct {
	Days        int  `yaml:"days"`         // age window in days
	Jobs        int  `yaml:"jobs"`         // 0 = one worker per CPU
	FirstParent bool `yaml:"first_parent"` // follow first parents only
}

// CustomCommand binds a key in the commit view to an external tool. Every
// "{}" in Args is replaced with the id of the selected commit, and the tool
// runs in that commit's repository.
type CustomCommand struct {
	Key        string `yaml:"key"`
	Executable string `yaml:"executable"`
	Args       string `yaml:"args"`
}

// reservedKeys are taken by built-in bindings of the commit view.
var reservedKeys = map[string]bool{
	"q": true,
	"j": true,
	"k": true,
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Days:        10,
			Jobs:        0,
			FirstParent: false,
		},
		CustomCommands: []CustomCommand{
			{Key: "i", Executable: "gitk", Args: "--select-commit={}"},
			{Key: "d", Executable: "gnome-terminal", Args: "-- git show {}"},
		},
	}
}

// DefaultPath returns the user-level configuration file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "oper", "oper.yml"), nil
}

// Load reads the configuration at path, merging it over the defaults. An
// empty path falls back to DefaultPath; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// EnsureDefault writes the default configuration to the user config path on
// first run, giving users a file to edit. An existing file is left alone.
func EnsureDefault() (string, error) {
	path, err := DefaultPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}
	if err := Save(Default(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Validate rejects custom command bindings the commit view cannot honor.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, cmd := range c.CustomCommands {
		if utf8.RuneCountInString(cmd.Key) != 1 {
			return fmt.Errorf("custom command %d: key %q must be a single character", i, cmd.Key)
		}
		if reservedKeys[cmd.Key] {
			return fmt.Errorf("custom command %d: key %q is a built-in binding", i, cmd.Key)
		}
		if seen[cmd.Key] {
			return fmt.Errorf("custom command %d: key %q bound twice", i, cmd.Key)
		}
		seen[cmd.Key] = true
		if cmd.Executable == "" {
			return fmt.Errorf("custom command %d: executable must not be empty", i)
		}
	}
	return nil
}
