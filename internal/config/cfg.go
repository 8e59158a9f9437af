// Package config handles all configuration logic for nvdisplay.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsrosen6/nvdisplay/internal/profile"
)

const (
	cfgDirName     = "nvdisplay"
	cfgFileName    = "config.json"
	defaultLogFile = "log.txt"
)

var ErrProfileNotFound = errors.New("profile not found")

// reloadDelay is the wait between reload attempts. Editors often write the
// file in several steps, so a read can land on a partial file.
var reloadDelay = 200 * time.Millisecond

type Config struct {
	path     string
	LogFile  string                     `json:"log_file"`
	Profiles map[string]profile.Profile `json:"profiles"`
}

func InitConfig(path string) (*Config, error) {
	if path == "" {
		defPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defPath
	}

	return readConfig(path)
}

// DefaultPath is the config file under the user's config directory.
func DefaultPath() (string, error) {
	uc, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory path: %w", err)
	}
	return filepath.Join(uc, cfgDirName, cfgFileName), nil
}

func defaultCfg(path string) *Config {
	return &Config{
		path:     path,
		LogFile:  defaultLogFile,
		Profiles: map[string]profile.Profile{},
	}
}

func readConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); err != nil {
		slog.Info("no config file found; creating default", "path", path)
		cfg = defaultCfg(path)

		if err := cfg.Write(); err != nil {
			return nil, fmt.Errorf("creating default config file: %w", err)
		}
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := json.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	cfg.path = path
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]profile.Profile{}
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	for name := range c.Profiles {
		if strings.TrimSpace(name) == "" {
			return errors.New("profile with empty name")
		}
	}

	return nil
}

func (c *Config) Path() string {
	return c.path
}

// LogPath resolves the event log file. Relative paths are taken relative to
// the config file's directory.
func (c *Config) LogPath() string {
	lf := c.LogFile
	if lf == "" {
		lf = defaultLogFile
	}
	if filepath.IsAbs(lf) {
		return lf
	}
	return filepath.Join(filepath.Dir(c.path), lf)
}

func (c *Config) Write() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checking and/or creating config directory: %w", err)
	}

	str, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}

	if err := os.WriteFile(c.path, str, 0o644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

// Reload re-reads the file in place, trying up to retries times.
func (c *Config) Reload(retries int) error {
	var err error
	for i := range max(retries, 1) {
		var fresh *Config
		if fresh, err = readConfig(c.path); err == nil {
			if err = fresh.Validate(); err == nil {
				c.LogFile = fresh.LogFile
				c.Profiles = fresh.Profiles
				slog.Debug("config reloaded", "attempt", i+1)
				return nil
			}
		}

		slog.Debug("config reload failed", "attempt", i+1, "error", err)
		if i < retries-1 {
			time.Sleep(reloadDelay)
		}
	}

	return fmt.Errorf("reloading config: %w", err)
}

// SetProfile stores p under name and writes the file.
func (c *Config) SetProfile(name string, p profile.Profile) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("profile name is required")
	}
	if c.Profiles == nil {
		c.Profiles = map[string]profile.Profile{}
	}
	c.Profiles[name] = p

	return c.Write()
}

func (c *Config) Profile(name string) (profile.Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, nil
}
