package models

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Nickname     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	AvatarURL    string
	Deactivated  bool `gorm:"not null;default:false"`
	LastSeenAt   time.Time
	CreatedAt    time.Time
}

// SystemSenderID is the reserved sender for platform-generated messages.
var SystemSenderID = uuid.Nil
