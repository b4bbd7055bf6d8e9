package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Makepad-fr/debts/internal/errors"
)

const (
	DefaultAPIURL   = "http://localhost:5000"
	DefaultLogLevel = "info"
	DefaultLogFile  = "debts.log"
	DefaultDriver   = "file"
	configFileName  = "config.yaml"
)

// Config holds everything the client needs at startup.
type Config struct {
	APIURL string      `yaml:"api_url"`
	HTTP   HTTPConfig  `yaml:"http"`
	Store  StoreConfig `yaml:"store"`
	Log    LogConfig   `yaml:"log"`

	// Home is the per-user directory holding credentials, logs and config.yaml.
	Home string `yaml:"-"`
	// Token, when set, overrides whatever the token store holds.
	Token string `yaml:"-"`
}

type HTTPConfig struct {
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Driver    string      `yaml:"driver"`
	SQLiteDSN string      `yaml:"sqlite_dsn"`
	Redis     RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		APIURL: DefaultAPIURL,
		Store:  StoreConfig{Driver: DefaultDriver},
		Log:    LogConfig{Level: DefaultLogLevel, File: DefaultLogFile},
	}
}

// Validate normalises the configuration in place and reports the first problem.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return apperrors.New(apperrors.KindConfig, "validate", "api url is empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return apperrors.Wrap(apperrors.KindConfig, "validate", "parse api url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.New(apperrors.KindConfig, "validate",
			fmt.Sprintf("api url must be http or https, got %q", c.APIURL))
	}
	if u.Host == "" {
		return apperrors.New(apperrors.KindConfig, "validate", "api url has no host")
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case "":
		c.Store.Driver = DefaultDriver
	case "file", "memory", "sqlite":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return apperrors.New(apperrors.KindConfig, "validate", "redis store requires an address")
		}
	default:
		return apperrors.New(apperrors.KindConfig, "validate",
			fmt.Sprintf("unsupported token store driver: %s", c.Store.Driver))
	}

	if c.HTTP.Timeout < 0 {
		return apperrors.New(apperrors.KindConfig, "validate", "http timeout cannot be negative")
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
	return nil
}
