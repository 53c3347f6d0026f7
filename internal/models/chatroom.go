package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chatroom is the shared identity of a 1:1 conversation. PairKey is the
// sorted concatenation of the two member ids; its unique index is what
// guarantees at most one room per pair under concurrent creation.
type Chatroom struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PairKey string    `gorm:"uniqueIndex;not null"`

	// LastSeq backs per-room monotonic message ordering.
	LastSeq int64 `gorm:"not null;default:0"`

	// Denormalized cache used for room-list sorting.
	LastMessageID *uuid.UUID
	LastMessageAt *time.Time

	CreatedAt time.Time
}

// PairKeyOf builds the order-independent key for a member pair.
func PairKeyOf(a, b uuid.UUID) string {
	lo, hi := a.String(), b.String()
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + ":" + hi
}

// Counterpart returns the other participant encoded in the pair key.
func (r *Chatroom) Counterpart(me uuid.UUID) (uuid.UUID, bool) {
	parts := strings.SplitN(r.PairKey, ":", 2)
	if len(parts) != 2 {
		return uuid.Nil, false
	}
	lo, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	hi, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	switch me {
	case lo:
		return hi, true
	case hi:
		return lo, true
	}
	return uuid.Nil, false
}
