package tokenstore

import (
	"fmt"
	"path/filepath"

	"gorm.io/gorm"
)

// Driver identifiers supported by the token store.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

const (
	credFileName   = "credentials.json"
	sqliteFileName = "credentials.db"
)

// Dependencies captures external handles required by certain drivers.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New creates a token store based on the provided configuration.
func New(cfg Config, deps Dependencies) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	switch driver {
	case DriverFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file driver requires a directory")
		}
		return NewFile(filepath.Join(cfg.Dir, credFileName)), nil
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		if deps.SQLiteDB != nil {
			return NewSQLite(deps.SQLiteDB)
		}
		dsn := ""
		if cfg.SQLite != nil {
			dsn = cfg.SQLite.DSN
		}
		if dsn == "" {
			if cfg.Dir == "" {
				return nil, fmt.Errorf("sqlite driver requires a dsn or a directory")
			}
			dsn = filepath.Join(cfg.Dir, sqliteFileName)
		}
		return OpenSQLite(dsn)
	case DriverRedis:
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unsupported token store driver: %s", driver)
	}
}
