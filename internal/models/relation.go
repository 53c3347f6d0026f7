package models

import (
	"time"

	"github.com/google/uuid"
)

type Block struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BlockerID uuid.UUID `gorm:"not null;uniqueIndex:idx_block_pair"`
	BlockedID uuid.UUID `gorm:"not null;uniqueIndex:idx_block_pair"`
	CreatedAt time.Time
}

// FriendRequest doubles as the friendship record once AcceptedAt is set.
type FriendRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FromID     uuid.UUID `gorm:"not null;uniqueIndex:idx_friend_request_pair"`
	ToID       uuid.UUID `gorm:"not null;uniqueIndex:idx_friend_request_pair"`
	AcceptedAt *time.Time
	CreatedAt  time.Time
}
