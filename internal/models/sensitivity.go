package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSensitivity is one sensitivity keyword a user has declared, e.g. "sulphites".
type UserSensitivity struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_sensitivity" json:"user_id"`
	Keyword   string    `gorm:"size:50;not null;uniqueIndex:idx_user_sensitivity" json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserSensitivity) TableName() string {
	return "user_sensitivities"
}
