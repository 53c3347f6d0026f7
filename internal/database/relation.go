package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairup-dev/pairup-server/internal/models"
)

func (d *Database) CreateBlock(ctx context.Context, blocker, blocked uuid.UUID) error {
	block := &models.Block{BlockerID: blocker, BlockedID: blocked, CreatedAt: time.Now()}
	err := d.db.WithContext(ctx).Create(block).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (d *Database) DeleteBlock(ctx context.Context, blocker, blocked uuid.UUID) error {
	return d.db.WithContext(ctx).
		Delete(&models.Block{}, "blocker_id = ? AND blocked_id = ?", blocker, blocked).Error
}

func (d *Database) BlockExists(ctx context.Context, blocker, blocked uuid.UUID) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blocker, blocked).
		Count(&count).Error
	return count > 0, err
}

func (d *Database) CreateFriendRequest(ctx context.Context, from, to uuid.UUID) error {
	req := &models.FriendRequest{FromID: from, ToID: to, CreatedAt: time.Now()}
	err := d.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (d *Database) AcceptFriendRequest(ctx context.Context, from, to uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("from_id = ? AND to_id = ? AND accepted_at IS NULL", from, to).
		Update("accepted_at", time.Now()).Error
}

// FriendshipExists checks for an accepted request in either direction.
func (d *Database) FriendshipExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("accepted_at IS NOT NULL").
		Where("((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?))", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func (d *Database) PendingRequestExists(ctx context.Context, from, to uuid.UUID) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("from_id = ? AND to_id = ? AND accepted_at IS NULL", from, to).
		Count(&count).Error
	return count > 0, err
}
