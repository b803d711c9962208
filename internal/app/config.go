package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/corey/slc/internal/domain/recommend"
)

// EnvPrefix prefixes every environment override, e.g. SLC_MODULES_DIR.
const EnvPrefix = "SLC"

// Config is the resolved tool configuration.
// Sources, later wins: defaults, .slc/config.toml, .env, SLC_* environment.
type Config struct {
	ModulesDir   string `toml:"modules_dir" envconfig:"MODULES_DIR"`
	StateDir     string `toml:"state_dir" envconfig:"STATE_DIR"`
	DefaultCount int    `toml:"default_count" envconfig:"DEFAULT_COUNT"`
	LogLevel     string `toml:"log_level" envconfig:"LOG_LEVEL"`

	// ProjectRoot anchors relative directories. Not read from any source.
	ProjectRoot string `toml:"-" ignored:"true"`
	// Source lists the files that contributed to the configuration.
	Source []string `toml:"-" ignored:"true"`
}

// DefaultConfig returns the built-in configuration for projectRoot.
func DefaultConfig(projectRoot string) Config {
	return Config{
		ModulesDir:   "modules",
		StateDir:     DefaultStateDir,
		DefaultCount: 5,
		LogLevel:     "warn",
		ProjectRoot:  projectRoot,
	}
}

// LoadConfig resolves the configuration of the project at projectRoot.
// Missing config and .env files are not errors.
func LoadConfig(projectRoot string) (Config, error) {
	cfg := DefaultConfig(projectRoot)

	path := NewPaths(filepath.Join(projectRoot, DefaultStateDir)).ConfigFile
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Source = append(cfg.Source, path)
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	envFile := filepath.Join(projectRoot, ".env")
	if err := godotenv.Load(envFile); err == nil {
		cfg.Source = append(cfg.Source, envFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DefaultCount < 1 || c.DefaultCount > recommend.MaxResultsLimit {
		return fmt.Errorf("default_count %d: must be between 1 and %d", c.DefaultCount, recommend.MaxResultsLimit)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(c.ModulesDir) == "" {
		return fmt.Errorf("modules_dir must not be empty")
	}
	if strings.TrimSpace(c.StateDir) == "" {
		return fmt.Errorf("state_dir must not be empty")
	}
	return nil
}

// ModulesPath returns the absolute-or-root-relative modules directory.
func (c Config) ModulesPath() string {
	return c.resolve(c.ModulesDir)
}

// StatePath returns the absolute-or-root-relative state directory.
func (c Config) StatePath() string {
	return c.resolve(c.StateDir)
}

func (c Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectRoot, dir)
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}
