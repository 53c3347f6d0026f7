package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairup-dev/pairup-server/internal/models"
)

func (d *Database) SaveMember(ctx context.Context, member *models.Member) error {
	return d.db.WithContext(ctx).Create(member).Error
}

func (d *Database) GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := d.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (d *Database) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (d *Database) UpdateMemberProfile(ctx context.Context, id uuid.UUID, nickname, avatarURL string) error {
	updates := map[string]interface{}{}
	if nickname != "" {
		updates["nickname"] = nickname
	}
	if avatarURL != "" {
		updates["avatar_url"] = avatarURL
	}
	if len(updates) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Updates(updates).Error
}

// DeactivateMember soft-disables the account. Historical messages keep
// their sender; rendering substitutes a placeholder.
func (d *Database) DeactivateMember(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Update("deactivated", true).Error
}

func (d *Database) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now()).Error
}
