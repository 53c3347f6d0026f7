package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pairup-dev/pairup-server/internal/chat"
	"github.com/pairup-dev/pairup-server/internal/models"
)

// AppendMessage persists a message with a room-monotonic seq and bumps
// the room's last-message cache, all in one transaction. The seq is
// allocated by a single-row UPDATE, which serializes concurrent senders
// on the chatroom row; GREATEST keeps it close to wall-clock millis while
// never going backward.
func (d *Database) AppendMessage(ctx context.Context, msg *models.Message) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var seq int64
		res := tx.Raw(
			"UPDATE chatrooms SET last_seq = GREATEST(last_seq + 1, ?) WHERE id = ? RETURNING last_seq",
			now.UnixMilli(), msg.ChatroomID,
		).Scan(&seq)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		msg.Seq = seq
		msg.CreatedAt = now
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Chatroom{}).
			Where("id = ?", msg.ChatroomID).
			Updates(map[string]interface{}{
				"last_message_id": msg.ID,
				"last_message_at": now,
			}).Error
	})
}

// scoped applies the member-view filter every message query shares:
// the room, everything since the member's join, addressed to everyone or
// to this member.
func (d *Database) scoped(ctx context.Context, s chat.Scope) *gorm.DB {
	return d.db.WithContext(ctx).
		Where("chatroom_id = ?", s.RoomID).
		Where("created_at >= ?", s.JoinedAt).
		Where("(recipient_id IS NULL OR recipient_id = ?)", s.MemberID)
}

// UnreadMessages returns the member's whole unread window, newest-first.
// The boundary row at created_at == last_viewed_at counts as read.
func (d *Database) UnreadMessages(ctx context.Context, s chat.Scope) ([]models.Message, error) {
	q := d.scoped(ctx, s)
	if s.ViewedAt != nil {
		q = q.Where("created_at > ?", *s.ViewedAt)
	}
	var messages []models.Message
	err := q.Order("seq DESC").Find(&messages).Error
	return messages, err
}

// RecentMessages returns the newest visible messages regardless of the
// view marker, newest-first.
func (d *Database) RecentMessages(ctx context.Context, s chat.Scope, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := d.scoped(ctx, s).Order("seq DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// MessagesBefore returns visible messages strictly older than the cursor
// seq, newest-first.
func (d *Database) MessagesBefore(ctx context.Context, s chat.Scope, cursor int64, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := d.scoped(ctx, s).
		Where("seq < ?", cursor).
		Order("seq DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// HasMessageBefore is an existence probe, not a count; it backs the
// hasNext flag of the full-unread-window branch.
func (d *Database) HasMessageBefore(ctx context.Context, s chat.Scope, seq int64) (bool, error) {
	var exists bool
	err := d.db.WithContext(ctx).Raw(
		`SELECT EXISTS(
			SELECT 1 FROM messages
			WHERE chatroom_id = ? AND created_at >= ?
			  AND (recipient_id IS NULL OR recipient_id = ?)
			  AND seq < ?
		)`,
		s.RoomID, s.JoinedAt, s.MemberID, seq,
	).Scan(&exists).Error
	return exists, err
}

func (d *Database) UnreadCount(ctx context.Context, s chat.Scope) (int64, error) {
	q := d.scoped(ctx, s).Model(&models.Message{})
	if s.ViewedAt != nil {
		q = q.Where("created_at > ?", *s.ViewedAt)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
