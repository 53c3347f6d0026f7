package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairup-dev/pairup-server/internal/models"
)

// FindRoomByPair looks up the room for an unordered member pair.
// Membership join state is irrelevant here; a room persists across leaves.
func (d *Database) FindRoomByPair(ctx context.Context, a, b uuid.UUID) (*models.Chatroom, error) {
	var room models.Chatroom
	err := d.db.WithContext(ctx).First(&room, "pair_key = ?", models.PairKeyOf(a, b)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom creates the pair's room and both memberships in one
// transaction. When a concurrent caller wins the pair-key race the
// duplicate-key failure is recovered by re-reading the winner's room.
func (d *Database) CreateRoom(ctx context.Context, a, b uuid.UUID, joinedAt *time.Time) (*models.Chatroom, error) {
	now := time.Now()
	room := &models.Chatroom{PairKey: models.PairKeyOf(a, b), CreatedAt: now}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for _, memberID := range []uuid.UUID{a, b} {
			membership := &models.Membership{
				ChatroomID:   room.ID,
				MemberID:     memberID,
				LastJoinedAt: joinedAt,
				CreatedAt:    now,
			}
			if err := tx.Create(membership).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := d.FindRoomByPair(ctx, a, b)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, err
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (d *Database) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Chatroom, error) {
	var room models.Chatroom
	err := d.db.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// RoomsOf lists a member's rooms, most recently active first. Rooms with
// no messages yet sort last.
func (d *Database) RoomsOf(ctx context.Context, memberID uuid.UUID) ([]models.Chatroom, error) {
	var rooms []models.Chatroom
	err := d.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.chatroom_id = chatrooms.id").
		Where("memberships.member_id = ?", memberID).
		Order("chatrooms.last_message_at DESC NULLS LAST").
		Find(&rooms).Error
	return rooms, err
}

func (d *Database) GetMembership(ctx context.Context, roomID, memberID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := d.db.WithContext(ctx).
		First(&membership, "chatroom_id = ? AND member_id = ?", roomID, memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (d *Database) MarkViewed(ctx context.Context, roomID, memberID uuid.UUID, at time.Time) error {
	return d.db.WithContext(ctx).Model(&models.Membership{}).
		Where("chatroom_id = ? AND member_id = ?", roomID, memberID).
		Update("last_viewed_at", at).Error
}

// MarkJoined sets the join marker only for exited memberships; entering
// an already-active room must not reset it, that would hide history.
func (d *Database) MarkJoined(ctx context.Context, roomID, memberID uuid.UUID, at time.Time) error {
	return d.db.WithContext(ctx).Model(&models.Membership{}).
		Where("chatroom_id = ? AND member_id = ? AND last_joined_at IS NULL", roomID, memberID).
		Update("last_joined_at", at).Error
}

func (d *Database) ClearJoined(ctx context.Context, roomID, memberID uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.Membership{}).
		Where("chatroom_id = ? AND member_id = ?", roomID, memberID).
		Update("last_joined_at", nil).Error
}
