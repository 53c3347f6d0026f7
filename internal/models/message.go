package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemCode discriminates platform-generated messages from user chat.
type SystemCode int

const (
	SystemCodeMatched SystemCode = 1
)

// Message is one immutable entry in a chatroom's append-only log.
// Seq is strictly increasing within a room and is the sole pagination
// cursor; CreatedAt is wall clock, compared only against membership
// markers and used for display. RecipientID == nil means visible to both
// room members; otherwise the entry is visible only to that member.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChatroomID uuid.UUID `gorm:"not null;index:idx_message_room_seq,priority:1"`
	SenderID   uuid.UUID `gorm:"not null"`

	RecipientID *uuid.UUID
	Content     string `gorm:"not null"`
	Seq         int64  `gorm:"not null;index:idx_message_room_seq,priority:2"`

	SystemCode *SystemCode `gorm:"type:smallint"`
	SourceRef  *uuid.UUID

	CreatedAt time.Time
}

func (m *Message) IsSystem() bool {
	return m.SystemCode != nil
}
