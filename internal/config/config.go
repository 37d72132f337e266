package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName = ".align"

	RegistryFileName = "config.json"
	SettingsFileName = "settings.yaml"
	StoreFileName    = "align.db"
	LogFileName      = "align.log"

	// Environment overrides, applied on top of the settings file.
	EnvDataDir         = "ALIGN_DATA_DIR"
	EnvRefreshCooldown = "ALIGN_REFRESH_COOLDOWN"
)

// Settings are the tunables read from settings.yaml with ALIGN_* environment
// variables applied on top.
type Settings struct {
	// RefreshCooldown is the watch gate window in seconds.
	RefreshCooldown float64 `yaml:"refresh_cooldown"`
}

func DefaultSettings() Settings {
	return Settings{RefreshCooldown: 1.0}
}

// Cooldown returns the gate window as a duration.
func (s Settings) Cooldown() time.Duration {
	return time.Duration(s.RefreshCooldown * float64(time.Second))
}

// DataDir is where align keeps its registry, settings, store and log.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, appDirName)
}

// EnsureDataDir creates the data directory when missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0755)
}

func SettingsPath() string { return filepath.Join(DataDir(), SettingsFileName) }
func RegistryPath() string { return filepath.Join(DataDir(), RegistryFileName) }
func StorePath() string    { return filepath.Join(DataDir(), StoreFileName) }
func LogPath() string      { return filepath.Join(DataDir(), LogFileName) }

// LoadSettings reads settings.yaml when present, applies environment
// overrides and validates the result. All problems are collected and
// reported in a single error.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()
	var problems []string

	data, err := os.ReadFile(SettingsPath())
	if err == nil {
		if uerr := yaml.Unmarshal(data, &s); uerr != nil {
			problems = append(problems, fmt.Sprintf("parse %s: %v", SettingsFileName, uerr))
		}
	} else if !os.IsNotExist(err) {
		problems = append(problems, fmt.Sprintf("read %s: %v", SettingsFileName, err))
	}

	if v := os.Getenv(EnvRefreshCooldown); v != "" {
		if f, perr := strconv.ParseFloat(v, 64); perr != nil {
			problems = append(problems, fmt.Sprintf("invalid %s value %q", EnvRefreshCooldown, v))
		} else {
			s.RefreshCooldown = f
		}
	}
	if s.RefreshCooldown < 0 {
		problems = append(problems, "refresh_cooldown must not be negative")
	}

	if len(problems) > 0 {
		return DefaultSettings(), fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return s, nil
}

// LoadRepos returns the ordered list of tracked repository paths. A missing
// registry file is an empty list.
func LoadRepos() ([]string, error) {
	data, err := os.ReadFile(RegistryPath())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	var repos []string
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return repos, nil
}

// SaveRepos persists the tracked repository list.
func SaveRepos(repos []string) error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(RegistryPath(), data, 0644)
}

// AddRepo appends path to the registry unless already present.
func AddRepo(path string) error {
	repos, err := LoadRepos()
	if err != nil {
		return err
	}
	for _, r := range repos {
		if r == path {
			return nil
		}
	}
	return SaveRepos(append(repos, path))
}

// RemoveRepo drops path from the registry; unknown paths are a no-op.
func RemoveRepo(path string) error {
	repos, err := LoadRepos()
	if err != nil {
		return err
	}
	kept := repos[:0]
	for _, r := range repos {
		if r != path {
			kept = append(kept, r)
		}
	}
	return SaveRepos(kept)
}
