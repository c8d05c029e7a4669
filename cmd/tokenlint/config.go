package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".tokenlint"
	configFile = "config.yaml"
)

// Environment overrides, applied after the config file.
const (
	envLogLevel  = "TOKENLINT_LOG_LEVEL"
	envLogFormat = "TOKENLINT_LOG_FORMAT"
	envAuditLog  = "TOKENLINT_AUDIT_LOG"
	envCacheSize = "TOKENLINT_CACHE_SIZE"
)

// ProjectConfig holds the contents of .tokenlint/config.yaml.
type ProjectConfig struct {
	Version   string    `yaml:"version"`
	Libraries []string  `yaml:"libraries,omitempty"`
	Tokens    []string  `yaml:"tokens,omitempty"`
	Exclude   []string  `yaml:"exclude,omitempty"`
	IgnoreIDs []string  `yaml:"ignore_ids,omitempty"`
	Log       LogConfig `yaml:"log"`
	AuditLog  string    `yaml:"audit_log,omitempty"`
	CacheSize int       `yaml:"cache_size,omitempty"`
}

// LogConfig selects the stderr log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1",
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func configPath(root string) string {
	return filepath.Join(root, configDir, configFile)
}

// loadProjectConfig reads .tokenlint/config.yaml under root.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath(root), err)
	}
	return cfg, nil
}

// loadConfig layers defaults, the project file, .env and the process
// environment, in that order.
func loadConfig(root string) (*ProjectConfig, error) {
	// A missing .env is normal.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg, err := loadProjectConfig(root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = defaultConfig()
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *ProjectConfig) {
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogFormat)); v != "" {
		cfg.Log.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(envAuditLog)); v != "" {
		cfg.AuditLog = v
	}
	if v := strings.TrimSpace(os.Getenv(envCacheSize)); v != "" {
		if n, err := cast.ToIntE(v); err == nil && n > 0 {
			cfg.CacheSize = n
		}
	}
}

// resolvePath anchors a configured path at root unless it is absolute.
func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// writeProjectConfig writes cfg, refusing to overwrite an existing file.
func writeProjectConfig(root string, cfg *ProjectConfig) (string, error) {
	path := configPath(root)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, fmt.Errorf("create directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return path, err
	}
	return path, os.WriteFile(path, data, 0644)
}
