package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tally.db"
	DefaultLogName        = "tally.log"
	DefaultRefresh        = 30 * time.Second

	appName = "tally"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	CompleteAll    string `toml:"complete_all"`
	ClearCompleted string `toml:"clear_completed"`
	CycleFilter    string `toml:"cycle_filter"`
	CycleSort      string `toml:"cycle_sort"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	LogPath         string `toml:"log_path"`
	LogLevel        string `toml:"log_level"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultSort     string `toml:"default_sort"`
	RefreshInterval string `toml:"refresh_interval"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TALLY_CONFIG, then the XDG config dir, then
// ~/.config.
func ResolveConfigPath() string {
	if p := os.Getenv("TALLY_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if it does not exist. Relative db and log paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.RefreshInterval != "" {
		if _, err := time.ParseDuration(cfg.RefreshInterval); err != nil {
			return cfg, fmt.Errorf("parse %s: refresh_interval: %w", path, err)
		}
	}
	return cfg.resolve(path), nil
}

// Refresh is how often relative dates are re-rendered.
func (c Config) Refresh() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return DefaultRefresh
	}
	return d
}

func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	c.DBPath = resolvePath(dir, c.DBPath)
	c.LogPath = resolvePath(dir, c.LogPath)
	return c
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		LogPath:         DefaultLogName,
		LogLevel:        "info",
		DefaultFilter:   "all",
		DefaultSort:     "default",
		RefreshInterval: DefaultRefresh.String(),
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Edit:           "e",
			Detail:         "i",
			Confirm:        "enter",
			Cancel:         "esc",
			CompleteAll:    "C",
			ClearCompleted: "X",
			CycleFilter:    "f",
			CycleSort:      "s",
		},
	}
}
