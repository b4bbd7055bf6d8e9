package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Makepad-fr/debts/internal/errors"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoader_Defaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := NewLoader().WithDotEnv(false).WithHome(home).WithLookup(envMap(nil)).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Zero(t, cfg.HTTP.Timeout)
}

func TestLoader_FileThenEnv(t *testing.T) {
	home := t.TempDir()
	content := `
api_url: "https://debts.example.com/"
http:
  timeout: 5s
store:
  driver: sqlite
  sqlite_dsn: "file:creds.db"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0o600))

	cfg, err := NewLoader().WithDotEnv(false).WithHome(home).WithLookup(envMap(map[string]string{
		"DEBTS_TOKEN":     "Bearer from-env",
		"DEBTS_LOG_LEVEL": "warn",
	})).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://debts.example.com", cfg.APIURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "file:creds.db", cfg.Store.SQLiteDSN)
	assert.Equal(t, "warn", cfg.Log.Level, "env wins over file")
	assert.Equal(t, "Bearer from-env", cfg.Token)
}

func TestLoader_HomeFromEnv(t *testing.T) {
	home := t.TempDir()
	cfg, err := NewLoader().WithDotEnv(false).WithLookup(envMap(map[string]string{
		"DEBTS_HOME":    home,
		"DEBTS_API_URL": "http://127.0.0.1:9000",
	})).Load()
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.APIURL)
}

func TestLoader_BadEnv(t *testing.T) {
	for key, val := range map[string]string{
		"DEBTS_HTTP_TIMEOUT": "soon",
		"DEBTS_REDIS_DB":     "zero",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := NewLoader().WithDotEnv(false).WithHome(t.TempDir()).
				WithLookup(envMap(map[string]string{key: val})).Load()
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.APIURL = " " }, wantErr: true},
		{name: "bad scheme", mutate: func(c *Config) { c.APIURL = "ftp://example.com" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.APIURL = "http://" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "etcd" }, wantErr: true},
		{name: "redis without addr", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: true},
		{name: "redis with addr", mutate: func(c *Config) {
			c.Store.Driver = "REDIS"
			c.Store.Redis.Addr = "localhost:6379"
		}},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTP.Timeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
