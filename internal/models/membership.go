package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership records one member's participation in one chatroom.
// LastJoinedAt == nil means the member has exited the room; the row itself
// outlives any number of leaves. LastViewedAt == nil means never viewed.
type Membership struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChatroomID uuid.UUID `gorm:"not null;uniqueIndex:idx_membership_room_member"`
	MemberID   uuid.UUID `gorm:"not null;uniqueIndex:idx_membership_room_member"`

	LastViewedAt *time.Time
	LastJoinedAt *time.Time

	CreatedAt time.Time
}
