package member

import (
	"context"

	"github.com/google/uuid"

	"github.com/pairup-dev/pairup-server/internal/chat"
	"github.com/pairup-dev/pairup-server/internal/database"
)

// DeactivatedPlaceholder replaces the name of members who closed their
// account wherever they are rendered.
const DeactivatedPlaceholder = "(deactivated user)"

// Directory resolves member existence and display data for rendering.
type Directory struct {
	db *database.Database
}

func NewDirectory(db *database.Database) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m, err := d.db.GetMember(ctx, id)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (d *Directory) IsDeactivated(ctx context.Context, id uuid.UUID) (bool, error) {
	m, err := d.db.GetMember(ctx, id)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, chat.ErrNotFound
	}
	return m.Deactivated, nil
}

func (d *Directory) DisplayInfo(ctx context.Context, id uuid.UUID) (chat.DisplayInfo, error) {
	m, err := d.db.GetMember(ctx, id)
	if err != nil {
		return chat.DisplayInfo{}, err
	}
	if m == nil {
		return chat.DisplayInfo{}, chat.ErrNotFound
	}
	info := chat.DisplayInfo{ID: m.ID, Name: m.Nickname, AvatarURL: m.AvatarURL, Deactivated: m.Deactivated}
	if m.Deactivated {
		info.Name = DeactivatedPlaceholder
		info.AvatarURL = ""
	}
	return info, nil
}
