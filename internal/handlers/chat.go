package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairup-dev/pairup-server/internal/chat"
	"github.com/pairup-dev/pairup-server/internal/handlers/dto"
	"github.com/pairup-dev/pairup-server/internal/middleware"
)

type ChatHandler struct {
	svc     *chat.Service
	members chat.MemberDirectory
	log     *zap.SugaredLogger
}

func NewChatHandler(svc *chat.Service, members chat.MemberDirectory, log *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{svc: svc, members: members, log: log}
}

// StartChat opens (or creates) the direct room with the target member and
// returns the initial message slice.
func (h *ChatHandler) StartChat(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	var req dto.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return
	}

	result, err := h.svc.StartChat(c.Request.Context(), memberID, targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	senders, err := h.senders(c, memberID, result.Counterpart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEnterRoomResponse(result, senders))
}

// StartMatch opens the pair's room with both sides joined and a targeted
// system notice for each, as the matching flow requires.
func (h *ChatHandler) StartMatch(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	var req dto.MatchChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return
	}
	var sourceRef *uuid.UUID
	if req.SourcePostID != "" {
		id, err := uuid.Parse(req.SourcePostID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source post id"})
			return
		}
		sourceRef = &id
	}

	result, err := h.svc.StartChatByMatch(c.Request.Context(), memberID, targetID, sourceRef)
	if err != nil {
		h.respondError(c, err)
		return
	}

	senders, err := h.senders(c, memberID, result.Counterpart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEnterRoomResponse(result, senders))
}

// ListRooms returns the member's rooms, most recently active first.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	summaries, err := h.svc.Rooms(c.Request.Context(), memberID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	rooms := make([]dto.RoomSummaryResponse, len(summaries))
	for i, s := range summaries {
		rooms[i] = dto.RoomSummaryResponse{
			RoomID:        s.RoomID,
			Counterpart:   dto.NewCounterpartInfo(s.Counterpart),
			UnreadCount:   s.UnreadCount,
			LastMessageAt: s.LastMessageAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetMessages serves the load-older cursor page.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var cursor *int64
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}
		cursor = &parsed
	}

	page, err := h.svc.LoadOlder(c.Request.Context(), memberID, roomID, cursor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	counterpart, err := h.svc.CounterpartOf(c.Request.Context(), memberID, roomID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	senders, err := h.senders(c, memberID, counterpart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessagesPage(page, senders))
}

// SendMessage appends a user message to the room.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), memberID, roomID, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	info, err := h.members.DisplayInfo(c.Request.Context(), memberID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	senders := map[uuid.UUID]chat.DisplayInfo{memberID: info}
	c.JSON(http.StatusCreated, dto.NewMessageItem(*msg, senders))
}

// Leave exits the member's membership; the room survives.
func (h *ChatHandler) Leave(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if err := h.svc.Leave(c.Request.Context(), memberID, roomID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left room"})
}

// UnreadCount reports the member's unread count for one room.
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	count, err := h.svc.UnreadCount(c.Request.Context(), memberID, roomID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// senders builds the display map for the two possible user senders of a
// direct room.
func (h *ChatHandler) senders(c *gin.Context, memberID uuid.UUID, counterpart chat.Counterpart) (map[uuid.UUID]chat.DisplayInfo, error) {
	me, err := h.members.DisplayInfo(c.Request.Context(), memberID)
	if err != nil {
		return nil, err
	}
	return map[uuid.UUID]chat.DisplayInfo{
		memberID:       me,
		counterpart.ID: counterpart.DisplayInfo,
	}, nil
}

func (h *ChatHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrSelfChat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrBlocked), errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrDeactivated):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		h.log.Errorw("chat request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
