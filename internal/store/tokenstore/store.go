package tokenstore

import (
	"context"
	"strings"
	"time"
)

// SlotName is the single well-known slot the credential lives under.
const SlotName = "debttracker_token"

// Store persists the current bearer token. At most one token is held;
// writing replaces it and writing "" removes the slot entirely.
type Store interface {
	// Read returns the persisted token, or ok=false when the slot is empty.
	Read(ctx context.Context) (token string, ok bool, err error)
	// Write persists token, or deletes the slot when token is "".
	Write(ctx context.Context, token string) error
	// Source names where tokens come from ("file", "redis", "env", ...).
	Source() string
	Close() error
}

// Clear removes the persisted token.
func Clear(ctx context.Context, s Store) error {
	return s.Write(ctx, "")
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	// Dir holds the credentials file and the default sqlite database.
	Dir    string
	SQLite *SQLiteConfig
	Redis  *RedisConfig
}

// SQLiteConfig selects the database file; empty DSN uses Dir/credentials.db.
type SQLiteConfig struct {
	DSN string
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// record is what the file driver writes to disk.
type record struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// normalize trims whitespace and a leading "Bearer " so pasted header
// values store as bare tokens.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
