package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairup-dev/pairup-server/internal/database"
	"github.com/pairup-dev/pairup-server/internal/middleware"
	"github.com/pairup-dev/pairup-server/internal/relation"
)

type MemberHandler struct {
	db        *database.Database
	relations *relation.Service
	log       *zap.SugaredLogger
}

func NewMemberHandler(db *database.Database, relations *relation.Service, log *zap.SugaredLogger) *MemberHandler {
	return &MemberHandler{db: db, relations: relations, log: log}
}

// Me returns the caller's own profile.
func (h *MemberHandler) Me(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	member, err := h.db.GetMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           member.ID,
		"nickname":     member.Nickname,
		"email":        member.Email,
		"avatar_url":   member.AvatarURL,
		"deactivated":  member.Deactivated,
		"last_seen_at": member.LastSeenAt,
	})
}

// UpdateMe updates the provided profile fields.
func (h *MemberHandler) UpdateMe(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	var req struct {
		Nickname  string `json:"nickname" binding:"omitempty,min=2,max=30"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpdateMemberProfile(c.Request.Context(), memberID, req.Nickname, req.AvatarURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// Deactivate soft-disables the account; chat history stays.
func (h *MemberHandler) Deactivate(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	if err := h.db.DeactivateMember(c.Request.Context(), memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}

// Block records a block and exits the blocker's membership in the
// pair's room.
func (h *MemberHandler) Block(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	if targetID == memberID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot block yourself"})
		return
	}

	if err := h.relations.Block(c.Request.Context(), memberID, targetID); err != nil {
		h.log.Errorw("block failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to block"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blocked"})
}

func (h *MemberHandler) Unblock(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	if err := h.relations.Unblock(c.Request.Context(), memberID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unblock"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unblocked"})
}

func (h *MemberHandler) RequestFriend(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	if targetID == memberID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot friend yourself"})
		return
	}

	if err := h.relations.RequestFriend(c.Request.Context(), memberID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send request"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "friend request sent"})
}

// AcceptFriend accepts the pending request from :id to the caller.
func (h *MemberHandler) AcceptFriend(c *gin.Context) {
	memberID := c.MustGet(middleware.MemberIDKey).(uuid.UUID)

	fromID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	if err := h.relations.AcceptFriend(c.Request.Context(), fromID, memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
}
