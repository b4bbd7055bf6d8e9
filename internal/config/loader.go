package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Makepad-fr/debts/internal/errors"
)

// Loader layers defaults, config.yaml, .env and environment variables.
type Loader struct {
	useDotEnv bool
	lookup    func(string) string
	home      string
}

// NewLoader creates a loader reading the process environment and ./.env.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		lookup:    os.Getenv,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithLookup replaces the environment lookup (useful for tests).
func (l *Loader) WithLookup(lookup func(string) string) *Loader {
	if lookup != nil {
		l.lookup = lookup
	}
	return l
}

// WithHome pins the home directory instead of resolving it from DEBTS_HOME.
func (l *Loader) WithHome(dir string) *Loader {
	l.home = dir
	return l
}

// Load builds the configuration. The result is validated.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		// a missing .env is normal
		_ = godotenv.Load()
	}

	cfg := Default()

	home, err := l.resolveHome()
	if err != nil {
		return nil, err
	}
	cfg.Home = home

	if err := readFile(filepath.Join(home, configFileName), cfg); err != nil {
		return nil, err
	}
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) resolveHome() (string, error) {
	if l.home != "" {
		return l.home, nil
	}
	if v := strings.TrimSpace(l.lookup("DEBTS_HOME")); v != "" {
		return v, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindConfig, "home", "resolve home directory", err)
	}
	return filepath.Join(dir, ".debts"), nil
}

func readFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(apperrors.KindConfig, "read", "read "+path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return apperrors.Wrap(apperrors.KindConfig, "parse", "parse "+path, err)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(l.lookup(key)); v != "" {
			*dst = v
		}
	}

	str("DEBTS_API_URL", &cfg.APIURL)
	str("DEBTS_TOKEN", &cfg.Token)
	str("DEBTS_STORE", &cfg.Store.Driver)
	str("DEBTS_SQLITE_DSN", &cfg.Store.SQLiteDSN)
	str("DEBTS_REDIS_ADDR", &cfg.Store.Redis.Addr)
	str("DEBTS_REDIS_PASSWORD", &cfg.Store.Redis.Password)
	str("DEBTS_REDIS_PREFIX", &cfg.Store.Redis.Prefix)
	str("DEBTS_LOG_LEVEL", &cfg.Log.Level)
	str("DEBTS_LOG_FILE", &cfg.Log.File)

	if v := strings.TrimSpace(l.lookup("DEBTS_REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.Wrap(apperrors.KindConfig, "env", "DEBTS_REDIS_DB", err)
		}
		cfg.Store.Redis.DB = n
	}
	if v := strings.TrimSpace(l.lookup("DEBTS_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperrors.Wrap(apperrors.KindConfig, "env", "DEBTS_HTTP_TIMEOUT", err)
		}
		cfg.HTTP.Timeout = d
	}
	return nil
}
