package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Credential is the row the sqlite driver keeps per slot.
type Credential struct {
	Slot      string `gorm:"primaryKey;size:64"`
	Token     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (Credential) TableName() string { return "credentials" }

type sqliteStore struct {
	db    *gorm.DB
	owned bool
}

// OpenSQLite opens (or creates) the database at dsn and migrates the table.
func OpenSQLite(dsn string) (Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s, err := newSQLite(db)
	if err != nil {
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewSQLite builds a store on an existing handle and migrates the table.
// The caller keeps ownership of db.
func NewSQLite(db *gorm.DB) (Store, error) {
	s, err := newSQLite(db)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newSQLite(db *gorm.DB) (*sqliteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	if err := db.AutoMigrate(&Credential{}); err != nil {
		return nil, fmt.Errorf("migrate credentials: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Read(ctx context.Context) (string, bool, error) {
	var row Credential
	err := s.db.WithContext(ctx).Where("slot = ?", SlotName).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if row.Token == "" {
		return "", false, nil
	}
	return row.Token, true, nil
}

func (s *sqliteStore) Write(ctx context.Context, token string) error {
	token = normalize(token)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot = ?", SlotName).Delete(&Credential{}).Error; err != nil {
			return err
		}
		if token == "" {
			return nil
		}
		return tx.Create(&Credential{Slot: SlotName, Token: token, UpdatedAt: time.Now().UTC()}).Error
	})
}

func (s *sqliteStore) Source() string { return DriverSQLite }

func (s *sqliteStore) Close() error {
	if !s.owned {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
