package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDir          = ".dontlookdown"
	ConfigFileName     = "config.yaml"
	SaveFileName       = "saves.gob"
	SQLiteSaveFileName = "saves.db"
	DefaultNamespace   = "dontlookdown"
	DefaultQuotaBytes  = 5 << 20
)

type Config struct {
	Version int           `yaml:"version"`
	Save    SaveConfig    `yaml:"save"`
	Loading LoadingConfig `yaml:"loading"`
	Watch   WatchConfig   `yaml:"watch"`
}

type SaveConfig struct {
	Backend    string `yaml:"backend" env:"DONTLOOKDOWN_SAVE_BACKEND"` // memory | file | sqlite | postgres
	Namespace  string `yaml:"namespace" env:"DONTLOOKDOWN_SAVE_NAMESPACE"`
	Path       string `yaml:"path,omitempty" env:"DONTLOOKDOWN_SAVE_PATH"` // relative paths resolve against the project root
	DSN        string `yaml:"dsn,omitempty" env:"DONTLOOKDOWN_SAVE_DSN"`
	QuotaBytes int    `yaml:"quota_bytes,omitempty" env:"DONTLOOKDOWN_SAVE_QUOTA_BYTES"` // memory backend only
}

type LoadingConfig struct {
	Display string `yaml:"display" env:"DONTLOOKDOWN_LOADING_DISPLAY"` // tui | plain
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" env:"DONTLOOKDOWN_WATCH_DEBOUNCE_MS"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Save: SaveConfig{
			Backend:    "file",
			Namespace:  DefaultNamespace,
			QuotaBytes: DefaultQuotaBytes,
		},
		Loading: LoadingConfig{
			Display: "tui",
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
	}
}

func GetConfigDir(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigDir)
}

func GetConfigPath(projectRoot string) string {
	return filepath.Join(GetConfigDir(projectRoot), ConfigFileName)
}

// GetSavePath returns the location of the file or sqlite save store.
func (c *Config) GetSavePath(projectRoot string) string {
	if c.Save.Path != "" {
		if filepath.IsAbs(c.Save.Path) {
			return c.Save.Path
		}
		return filepath.Join(projectRoot, c.Save.Path)
	}
	if c.Save.Backend == "sqlite" {
		return filepath.Join(GetConfigDir(projectRoot), SQLiteSaveFileName)
	}
	return filepath.Join(GetConfigDir(projectRoot), SaveFileName)
}

func Load(projectRoot string) (*Config, error) {
	configPath := GetConfigPath(projectRoot)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overrides file values with DONTLOOKDOWN_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// applyDefaults fills in values missing from older or hand-written config files.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Save.Backend == "" {
		c.Save.Backend = defaults.Save.Backend
	}
	if c.Save.Namespace == "" {
		c.Save.Namespace = defaults.Save.Namespace
	}
	if c.Save.QuotaBytes == 0 {
		c.Save.QuotaBytes = defaults.Save.QuotaBytes
	}
	if c.Loading.Display == "" {
		c.Loading.Display = defaults.Loading.Display
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
}

// Validate reports settings no component can run with.
func (c *Config) Validate() error {
	switch c.Save.Backend {
	case "memory", "file", "sqlite":
	case "postgres":
		if c.Save.DSN == "" {
			return fmt.Errorf("save.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown save backend %q (expected memory, file, sqlite or postgres)", c.Save.Backend)
	}

	if strings.Contains(c.Save.Namespace, "_") {
		// "<namespace>_<key>" must split back unambiguously
		return fmt.Errorf("save.namespace %q must not contain '_'", c.Save.Namespace)
	}

	switch c.Loading.Display {
	case "tui", "plain":
	default:
		return fmt.Errorf("unknown loading display %q (expected tui or plain)", c.Loading.Display)
	}

	return nil
}

func (c *Config) Write(projectRoot string) error {
	configDir := GetConfigDir(projectRoot)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := GetConfigPath(projectRoot)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists(projectRoot string) bool {
	configPath := GetConfigPath(projectRoot)
	_, err := os.Stat(configPath)
	return err == nil
}

// FindProjectRoot walks upward from the current directory to the first
// directory holding a .dontlookdown/config.yaml.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Resolve symlinks to handle symlinked directories
	cwd, err = filepath.EvalSymlinks(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	return findProjectRootFrom(cwd)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no dontlookdown project found (run 'dontlookdown init' first)")
}

// LoadOrDefault loads the project config, or returns the defaults with
// environment overrides rooted at the current directory when no project
// has been initialized.
func LoadOrDefault() (*Config, string, error) {
	root, err := FindProjectRoot()
	if err == nil {
		cfg, err := Load(root)
		return cfg, root, err
	}

	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", cwdErr)
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, cwd, nil
}

// EnsureGitignoreEntry adds entry to dir/.gitignore if the file exists and
// does not already list it.
func EnsureGitignoreEntry(dir, entry string) (bool, error) {
	gitignorePath := filepath.Join(dir, ".gitignore")
	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == entry || strings.TrimSpace(line) == strings.TrimSuffix(entry, "/") {
			return false, nil
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if len(content) > 0 && content[len(content)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(entry + "\n"); err != nil {
		return false, err
	}
	return true, nil
}
