package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

var ErrConfigNotFound = errors.New("config not found")

// DefaultPath is <user config dir>/profanity-silencer/config.toml
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "profanity-silencer", "config.toml"), nil
}

// Read parses the file at path, returning ErrConfigNotFound if it does not
// exist. An empty path means DefaultPath.
func Read(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("component", "config").Str("path", path).Interface("keys", undecoded).Msg("ignoring unknown keys")
	}
	cfg.applyDefaults(meta.IsDefined("silence", "padding_ms"))

	log.Debug().Str("component", "config").Str("path", path).Msg("configuration loaded")
	return &cfg, nil
}

// Load is Read with a missing file treated as the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if errors.Is(err, ErrConfigNotFound) {
		log.Debug().Str("component", "config").Msg("no config file, using defaults")
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save writes cfg to path (DefaultPath when empty), creating parent
// directories. The file may hold API keys, so it is private to the user.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
