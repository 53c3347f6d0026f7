package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairup-dev/pairup-server/internal/models"
)

// Scope bounds every message query to one member's view of one room:
// entries created since the member last joined, addressed to everyone or
// to that member. The engine is never invoked for exited memberships, so
// JoinedAt is always set.
type Scope struct {
	RoomID   uuid.UUID
	MemberID uuid.UUID
	JoinedAt time.Time
	ViewedAt *time.Time
}

// Store is the persistence surface the chat service needs.
type Store interface {
	// FindRoomByPair returns (nil, nil) when no room exists for the pair.
	FindRoomByPair(ctx context.Context, a, b uuid.UUID) (*models.Chatroom, error)
	// CreateRoom creates a room plus one membership per member, all in one
	// transaction. joinedAt nil creates both memberships exited. A
	// concurrent create of the same pair must resolve to the winner's room.
	CreateRoom(ctx context.Context, a, b uuid.UUID, joinedAt *time.Time) (*models.Chatroom, error)
	// GetRoom returns (nil, nil) when the room does not exist.
	GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Chatroom, error)

	// GetMembership returns (nil, nil) when the member has no row for the room.
	GetMembership(ctx context.Context, roomID, memberID uuid.UUID) (*models.Membership, error)
	MarkViewed(ctx context.Context, roomID, memberID uuid.UUID, at time.Time) error
	// MarkJoined sets the join marker only when it is currently null.
	MarkJoined(ctx context.Context, roomID, memberID uuid.UUID, at time.Time) error
	ClearJoined(ctx context.Context, roomID, memberID uuid.UUID) error

	// AppendMessage assigns Seq and CreatedAt, persists the message and
	// bumps the room's last-message cache.
	AppendMessage(ctx context.Context, msg *models.Message) error
	// UnreadMessages returns the full unread window, newest-first.
	UnreadMessages(ctx context.Context, s Scope) ([]models.Message, error)
	// RecentMessages ignores the view marker, newest-first.
	RecentMessages(ctx context.Context, s Scope, limit int) ([]models.Message, error)
	// MessagesBefore returns messages with seq < cursor, newest-first.
	MessagesBefore(ctx context.Context, s Scope, cursor int64, limit int) ([]models.Message, error)
	HasMessageBefore(ctx context.Context, s Scope, seq int64) (bool, error)
	UnreadCount(ctx context.Context, s Scope) (int64, error)

	// RoomsOf lists a member's rooms, most recently active first.
	RoomsOf(ctx context.Context, memberID uuid.UUID) ([]models.Chatroom, error)
}

// RelationChecker answers block/friend questions about member pairs.
type RelationChecker interface {
	IsBlocked(ctx context.Context, blocker, target uuid.UUID) (bool, error)
	IsFriend(ctx context.Context, a, b uuid.UUID) (bool, error)
	HasPendingRequest(ctx context.Context, from, to uuid.UUID) (bool, error)
}

// DisplayInfo is the render-facing view of a member.
type DisplayInfo struct {
	ID          uuid.UUID
	Name        string
	AvatarURL   string
	Deactivated bool
}

// MemberDirectory resolves member existence and display data.
type MemberDirectory interface {
	// Exists reports whether the member is known, active or not.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	IsDeactivated(ctx context.Context, id uuid.UUID) (bool, error)
	DisplayInfo(ctx context.Context, id uuid.UUID) (DisplayInfo, error)
}

// Notifier announces room joins to the delivery tier. Implementations
// must not block and must swallow their own failures.
type Notifier interface {
	RoomJoined(memberID, roomID uuid.UUID)
}

// Counterpart is the other participant as seen by the requesting member.
type Counterpart struct {
	DisplayInfo
	IsFriend  bool
	IsBlocked bool
	// PendingRequestFrom is set when the counterpart has an unanswered
	// friend request towards the requesting member.
	PendingRequestFrom *uuid.UUID
}

// SystemFlag marks an entry result that originated from a platform
// event, such as a match, with an optional source-object reference.
type SystemFlag struct {
	Code      models.SystemCode
	SourceRef *uuid.UUID
}

// EnterRoomResult is what entering or starting a chat returns.
type EnterRoomResult struct {
	RoomID      uuid.UUID
	Counterpart Counterpart
	SystemFlag  *SystemFlag
	Messages    Page
}

// RoomSummary is one row of a member's room list.
type RoomSummary struct {
	RoomID        uuid.UUID
	Counterpart   Counterpart
	UnreadCount   int64
	LastMessageAt *time.Time
}

// Service orchestrates room discovery, membership transitions and the
// retrieval engine.
type Service struct {
	store     Store
	relations RelationChecker
	members   MemberDirectory
	notifier  Notifier
	log       *zap.SugaredLogger
	pageSize  int
	now       func() time.Time
}

func NewService(store Store, relations RelationChecker, members MemberDirectory, notifier Notifier, log *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		relations: relations,
		members:   members,
		notifier:  notifier,
		log:       log,
		pageSize:  DefaultPageSize,
		now:       time.Now,
	}
}

// StartChat finds or creates the room between me and target and returns
// my view of it.
//
// On an existing room the member's view marker is refreshed and the
// initial slice is computed; an exited membership is re-validated against
// the counterpart's block list and activation status before re-entry. On
// first contact the room is created with both memberships exited and the
// slice is empty.
func (s *Service) StartChat(ctx context.Context, me, target uuid.UUID) (*EnterRoomResult, error) {
	if me == target {
		return nil, ErrSelfChat
	}
	if ok, err := s.members.Exists(ctx, target); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	if blocked, err := s.relations.IsBlocked(ctx, me, target); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrBlocked
	}

	room, err := s.store.FindRoomByPair(ctx, me, target)
	if err != nil {
		return nil, err
	}

	if room == nil {
		if err := s.checkCounterpart(ctx, me, target); err != nil {
			return nil, err
		}
		room, err = s.store.CreateRoom(ctx, me, target, nil)
		if err != nil {
			return nil, err
		}
		counterpart, err := s.counterpart(ctx, me, target)
		if err != nil {
			return nil, err
		}
		// Neither side has joined yet, so there is nothing to show.
		return &EnterRoomResult{RoomID: room.ID, Counterpart: counterpart}, nil
	}

	ms, err := s.store.GetMembership(ctx, room.ID, me)
	if err != nil {
		return nil, err
	}
	if ms == nil {
		return nil, ErrNotParticipant
	}

	now := s.now()
	joinedAt := ms.LastJoinedAt
	if StateOf(ms) != StateActive {
		// Re-entry after a leave is a fresh contact from the counterpart's
		// point of view; an already-active room is never re-validated.
		if err := s.checkCounterpart(ctx, me, target); err != nil {
			return nil, err
		}
		if err := s.store.MarkJoined(ctx, room.ID, me, now); err != nil {
			return nil, err
		}
		joinedAt = &now
	}

	viewedAt := ms.LastViewedAt
	if err := s.store.MarkViewed(ctx, room.ID, me, now); err != nil {
		return nil, err
	}

	scope := Scope{RoomID: room.ID, MemberID: me, JoinedAt: *joinedAt, ViewedAt: viewedAt}
	page, err := s.initialPage(ctx, scope)
	if err != nil {
		return nil, err
	}
	counterpart, err := s.counterpart(ctx, me, target)
	if err != nil {
		return nil, err
	}
	return &EnterRoomResult{RoomID: room.ID, Counterpart: counterpart, Messages: page}, nil
}

// StartChatByMatch opens the pair's room with both members active, drops
// a targeted "matched" system message into each member's stream and
// announces the join to the delivery tier. The announcement is
// best-effort and never blocks or fails the call.
func (s *Service) StartChatByMatch(ctx context.Context, me, target uuid.UUID, sourceRef *uuid.UUID) (*EnterRoomResult, error) {
	if me == target {
		return nil, ErrSelfChat
	}
	if ok, err := s.members.Exists(ctx, target); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	if blocked, err := s.relations.IsBlocked(ctx, me, target); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrBlocked
	}
	if err := s.checkCounterpart(ctx, me, target); err != nil {
		return nil, err
	}

	now := s.now()
	room, err := s.store.FindRoomByPair(ctx, me, target)
	if err != nil {
		return nil, err
	}
	if room == nil {
		room, err = s.store.CreateRoom(ctx, me, target, &now)
		if err != nil {
			return nil, err
		}
	} else {
		// MarkJoined is a no-op for already-active memberships, so prior
		// history is never hidden by a repeated match.
		for _, id := range []uuid.UUID{me, target} {
			if err := s.store.MarkJoined(ctx, room.ID, id, now); err != nil {
				return nil, err
			}
		}
	}

	code := models.SystemCodeMatched
	for _, id := range []uuid.UUID{me, target} {
		recipient := id
		msg := &models.Message{
			ChatroomID:  room.ID,
			SenderID:    models.SystemSenderID,
			RecipientID: &recipient,
			Content:     "You have been matched!",
			SystemCode:  &code,
			SourceRef:   sourceRef,
		}
		if err := s.store.AppendMessage(ctx, msg); err != nil {
			return nil, err
		}
	}

	s.notifier.RoomJoined(me, room.ID)
	s.notifier.RoomJoined(target, room.ID)

	ms, err := s.store.GetMembership(ctx, room.ID, me)
	if err != nil {
		return nil, err
	}
	if ms == nil || ms.LastJoinedAt == nil {
		return nil, ErrNotParticipant
	}
	viewedAt := ms.LastViewedAt
	if err := s.store.MarkViewed(ctx, room.ID, me, s.now()); err != nil {
		return nil, err
	}

	scope := Scope{RoomID: room.ID, MemberID: me, JoinedAt: *ms.LastJoinedAt, ViewedAt: viewedAt}
	page, err := s.initialPage(ctx, scope)
	if err != nil {
		return nil, err
	}
	counterpart, err := s.counterpart(ctx, me, target)
	if err != nil {
		return nil, err
	}
	s.log.Infow("chat matched", "room_id", room.ID, "member_id", me, "target_id", target)
	return &EnterRoomResult{
		RoomID:      room.ID,
		Counterpart: counterpart,
		SystemFlag:  &SystemFlag{Code: models.SystemCodeMatched, SourceRef: sourceRef},
		Messages:    page,
	}, nil
}

// LoadOlder returns the page of visible messages preceding cursor, or the
// newest page when cursor is nil.
func (s *Service) LoadOlder(ctx context.Context, me, roomID uuid.UUID, cursor *int64) (Page, error) {
	scope, state, err := s.memberScope(ctx, me, roomID)
	if err != nil {
		return Page{}, err
	}
	if state != StateActive {
		// An exited member's join marker excludes everything.
		return Page{}, nil
	}
	fetch := func(limit int) ([]models.Message, error) {
		if cursor != nil {
			return s.store.MessagesBefore(ctx, scope, *cursor, limit)
		}
		return s.store.RecentMessages(ctx, scope, limit)
	}
	return BuildCursorPage(fetch, s.pageSize)
}

// UnreadCount reports how many visible messages arrived after the
// member's view marker. Exited memberships always count zero.
func (s *Service) UnreadCount(ctx context.Context, me, roomID uuid.UUID) (int64, error) {
	scope, state, err := s.memberScope(ctx, me, roomID)
	if err != nil {
		return 0, err
	}
	if state != StateActive {
		return 0, nil
	}
	return s.store.UnreadCount(ctx, scope)
}

// SendMessage appends a user message to a room the sender actively
// participates in. Sending implies the sender has the room on screen, so
// their view marker is refreshed as well.
func (s *Service) SendMessage(ctx context.Context, me, roomID uuid.UUID, content string) (*models.Message, error) {
	_, state, err := s.memberScope(ctx, me, roomID)
	if err != nil {
		return nil, err
	}
	if state != StateActive {
		return nil, ErrNotParticipant
	}
	msg := &models.Message{ChatroomID: roomID, SenderID: me, Content: content}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.store.MarkViewed(ctx, roomID, me, s.now()); err != nil {
		return nil, err
	}
	return msg, nil
}

// Leave exits the member's membership; the room and its history survive.
func (s *Service) Leave(ctx context.Context, me, roomID uuid.UUID) error {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrNotFound
	}
	ms, err := s.store.GetMembership(ctx, roomID, me)
	if err != nil {
		return err
	}
	if ms == nil {
		return ErrNotParticipant
	}
	return s.store.ClearJoined(ctx, roomID, me)
}

// Rooms lists the member's rooms with counterpart info and unread counts,
// most recently active first.
func (s *Service) Rooms(ctx context.Context, me uuid.UUID) ([]RoomSummary, error) {
	rooms, err := s.store.RoomsOf(ctx, me)
	if err != nil {
		return nil, err
	}
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		other, ok := room.Counterpart(me)
		if !ok {
			continue
		}
		counterpart, err := s.counterpart(ctx, me, other)
		if err != nil {
			return nil, err
		}
		summary := RoomSummary{RoomID: room.ID, Counterpart: counterpart, LastMessageAt: room.LastMessageAt}
		ms, err := s.store.GetMembership(ctx, room.ID, me)
		if err != nil {
			return nil, err
		}
		if StateOf(ms) == StateActive {
			scope := Scope{RoomID: room.ID, MemberID: me, JoinedAt: *ms.LastJoinedAt, ViewedAt: ms.LastViewedAt}
			count, err := s.store.UnreadCount(ctx, scope)
			if err != nil {
				return nil, err
			}
			summary.UnreadCount = count
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// CounterpartOf resolves the other participant of a room for rendering.
func (s *Service) CounterpartOf(ctx context.Context, me, roomID uuid.UUID) (Counterpart, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return Counterpart{}, err
	}
	if room == nil {
		return Counterpart{}, ErrNotFound
	}
	other, ok := room.Counterpart(me)
	if !ok {
		return Counterpart{}, ErrNotParticipant
	}
	return s.counterpart(ctx, me, other)
}

// initialPage runs the two-branch retrieval algorithm for one scope.
func (s *Service) initialPage(ctx context.Context, scope Scope) (Page, error) {
	unread, err := s.store.UnreadMessages(ctx, scope)
	if err != nil {
		return Page{}, err
	}
	return BuildInitialPage(
		unread,
		func(limit int) ([]models.Message, error) { return s.store.RecentMessages(ctx, scope, limit) },
		func(beforeSeq int64) (bool, error) { return s.store.HasMessageBefore(ctx, scope, beforeSeq) },
		s.pageSize,
	)
}

// memberScope loads the room and membership and assembles the query scope.
func (s *Service) memberScope(ctx context.Context, me, roomID uuid.UUID) (Scope, JoinState, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return Scope{}, StateNeverJoined, err
	}
	if room == nil {
		return Scope{}, StateNeverJoined, ErrNotFound
	}
	ms, err := s.store.GetMembership(ctx, roomID, me)
	if err != nil {
		return Scope{}, StateNeverJoined, err
	}
	if ms == nil {
		return Scope{}, StateNeverJoined, ErrNotParticipant
	}
	state := StateOf(ms)
	scope := Scope{RoomID: roomID, MemberID: me, ViewedAt: ms.LastViewedAt}
	if state == StateActive {
		scope.JoinedAt = *ms.LastJoinedAt
	}
	return scope, state, nil
}

// checkCounterpart enforces the fresh-contact rules: the target must not
// have blocked me and must still be active.
func (s *Service) checkCounterpart(ctx context.Context, me, target uuid.UUID) error {
	if blocked, err := s.relations.IsBlocked(ctx, target, me); err != nil {
		return err
	} else if blocked {
		return ErrBlocked
	}
	if deactivated, err := s.members.IsDeactivated(ctx, target); err != nil {
		return err
	} else if deactivated {
		return ErrDeactivated
	}
	return nil
}

func (s *Service) counterpart(ctx context.Context, me, other uuid.UUID) (Counterpart, error) {
	info, err := s.members.DisplayInfo(ctx, other)
	if err != nil {
		return Counterpart{}, err
	}
	isFriend, err := s.relations.IsFriend(ctx, me, other)
	if err != nil {
		return Counterpart{}, err
	}
	isBlocked, err := s.relations.IsBlocked(ctx, me, other)
	if err != nil {
		return Counterpart{}, err
	}
	c := Counterpart{DisplayInfo: info, IsFriend: isFriend, IsBlocked: isBlocked}
	pending, err := s.relations.HasPendingRequest(ctx, other, me)
	if err != nil {
		return Counterpart{}, err
	}
	if pending {
		id := other
		c.PendingRequestFrom = &id
	}
	return c, nil
}
