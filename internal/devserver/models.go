package devserver

import (
	"time"

	"github.com/Makepad-fr/debts/internal/model"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

func (u User) toModel() model.User {
	return model.User{ID: u.ID, Email: u.Email}
}

type Debt struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	CreatedBy   string  `gorm:"index;size:36;not null"`
	Status      string  `gorm:"size:50;default:open"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d Debt) toModel() model.Debt {
	created := d.CreatedAt.UTC().Format(time.RFC3339Nano)
	updated := d.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return model.Debt{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	}
}
