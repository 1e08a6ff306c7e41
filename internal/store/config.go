package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// GlobalConfig is ~/.appsbar/config.json. Comments and trailing commas are allowed.
type GlobalConfig struct {
	// Menus is the menu tree file (YAML, JSON or JSONC).
	Menus string `json:"menus,omitempty"`

	Store *StoreConfig `json:"store,omitempty"`

	// Apps optionally overrides the app rank table and placeholder set.
	Apps *AppsConfig `json:"apps,omitempty"`

	Log *LogConfig `json:"log,omitempty"`
}

type StoreConfig struct {
	// Backend is one of: sqlite (default), redis, memory.
	Backend     string `json:"backend,omitempty"`
	Dir         string `json:"dir,omitempty"`
	RedisAddr   string `json:"redisAddr,omitempty"`
	RedisPrefix string `json:"redisPrefix,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
}

type AppsConfig struct {
	// Ranks maps an app label or xmlid suffix (case-insensitive) to its rank.
	// Entries are merged over the built-in table.
	Ranks map[string]int `json:"ranks,omitempty"`

	// Placeholders replaces the built-in placeholder apps when non-nil.
	Placeholders []PlaceholderConfig `json:"placeholders,omitempty"`
}

type PlaceholderConfig struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	XMLID string `json:"xmlid,omitempty"`
	Order int    `json:"order"`
}

type LogConfig struct {
	Level string `json:"level,omitempty"`
	File  string `json:"file,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.appsbar).
	if v := strings.TrimSpace(os.Getenv("APPSBAR_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".appsbar"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the global config. A missing file is the empty config.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(jsonc.ToJSON(b), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// StoreOrEmpty returns cfg.Store or a zero value.
func (cfg *GlobalConfig) StoreOrEmpty() StoreConfig {
	if cfg == nil || cfg.Store == nil {
		return StoreConfig{}
	}
	return *cfg.Store
}

// LogOrEmpty returns cfg.Log or a zero value.
func (cfg *GlobalConfig) LogOrEmpty() LogConfig {
	if cfg == nil || cfg.Log == nil {
		return LogConfig{}
	}
	return *cfg.Log
}
