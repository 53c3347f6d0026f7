package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/pairup-dev/pairup-server/internal/chat"
	"github.com/pairup-dev/pairup-server/internal/models"
)

// SystemSenderName labels platform-generated entries in rendered slices.
const SystemSenderName = "PairUp"

type StartChatRequest struct {
	TargetID string `json:"target_id" binding:"required,uuid"`
}

type MatchChatRequest struct {
	TargetID     string `json:"target_id" binding:"required,uuid"`
	SourcePostID string `json:"source_post_id" binding:"omitempty,uuid"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MessageItem struct {
	SenderID     uuid.UUID  `json:"sender_id"`
	SenderName   string     `json:"sender_name"`
	SenderAvatar string     `json:"sender_avatar,omitempty"`
	Text         string     `json:"text"`
	SentAt       time.Time  `json:"sent_at"`
	Cursor       int64      `json:"timestamp_cursor"`
	IsSystem     bool       `json:"is_system"`
	SystemCode   *int       `json:"system_code,omitempty"`
	SourceRef    *uuid.UUID `json:"source_ref,omitempty"`
}

type MessagesPage struct {
	Items      []MessageItem `json:"items"`
	Count      int           `json:"count"`
	HasNext    bool          `json:"has_next"`
	NextCursor *int64        `json:"next_cursor,omitempty"`
}

type CounterpartInfo struct {
	ID                       uuid.UUID  `json:"id"`
	Name                     string     `json:"name"`
	Avatar                   string     `json:"avatar,omitempty"`
	IsFriend                 bool       `json:"is_friend"`
	IsBlocked                bool       `json:"is_blocked"`
	IsDeactivated            bool       `json:"is_deactivated"`
	PendingFriendRequestFrom *uuid.UUID `json:"pending_friend_request_from,omitempty"`
}

type SystemFlagInfo struct {
	Code      int        `json:"code"`
	SourceRef *uuid.UUID `json:"source_ref,omitempty"`
}

type EnterRoomResponse struct {
	RoomID      uuid.UUID       `json:"room_id"`
	Counterpart CounterpartInfo `json:"counterpart"`
	SystemFlag  *SystemFlagInfo `json:"system_flag,omitempty"`
	Messages    MessagesPage    `json:"messages"`
}

type RoomSummaryResponse struct {
	RoomID        uuid.UUID       `json:"room_id"`
	Counterpart   CounterpartInfo `json:"counterpart"`
	UnreadCount   int64           `json:"unread_count"`
	LastMessageAt *time.Time      `json:"last_message_at,omitempty"`
}

func NewCounterpartInfo(c chat.Counterpart) CounterpartInfo {
	return CounterpartInfo{
		ID:                       c.ID,
		Name:                     c.Name,
		Avatar:                   c.AvatarURL,
		IsFriend:                 c.IsFriend,
		IsBlocked:                c.IsBlocked,
		IsDeactivated:            c.Deactivated,
		PendingFriendRequestFrom: c.PendingRequestFrom,
	}
}

// NewMessageItem renders one log entry. senders maps member ids to
// display info; system entries get the fixed platform identity.
func NewMessageItem(msg models.Message, senders map[uuid.UUID]chat.DisplayInfo) MessageItem {
	item := MessageItem{
		SenderID: msg.SenderID,
		Text:     msg.Content,
		SentAt:   msg.CreatedAt,
		Cursor:   msg.Seq,
		IsSystem: msg.IsSystem(),
	}
	if msg.IsSystem() {
		item.SenderName = SystemSenderName
		code := int(*msg.SystemCode)
		item.SystemCode = &code
		item.SourceRef = msg.SourceRef
		return item
	}
	if info, ok := senders[msg.SenderID]; ok {
		item.SenderName = info.Name
		item.SenderAvatar = info.AvatarURL
	}
	return item
}

func NewMessagesPage(page chat.Page, senders map[uuid.UUID]chat.DisplayInfo) MessagesPage {
	items := make([]MessageItem, len(page.Items))
	for i, msg := range page.Items {
		items[i] = NewMessageItem(msg, senders)
	}
	return MessagesPage{
		Items:      items,
		Count:      len(items),
		HasNext:    page.HasNext,
		NextCursor: page.NextCursor,
	}
}

func NewEnterRoomResponse(res *chat.EnterRoomResult, senders map[uuid.UUID]chat.DisplayInfo) EnterRoomResponse {
	resp := EnterRoomResponse{
		RoomID:      res.RoomID,
		Counterpart: NewCounterpartInfo(res.Counterpart),
		Messages:    NewMessagesPage(res.Messages, senders),
	}
	if res.SystemFlag != nil {
		resp.SystemFlag = &SystemFlagInfo{Code: int(res.SystemFlag.Code), SourceRef: res.SystemFlag.SourceRef}
	}
	return resp
}
