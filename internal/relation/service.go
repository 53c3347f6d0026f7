package relation

import (
	"context"

	"github.com/google/uuid"

	"github.com/pairup-dev/pairup-server/internal/database"
)

// Service answers block/friend questions and applies relation actions.
// It backs the predicates the chat service consumes.
type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{db: db}
}

func (s *Service) IsBlocked(ctx context.Context, blocker, target uuid.UUID) (bool, error) {
	return s.db.BlockExists(ctx, blocker, target)
}

func (s *Service) IsFriend(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.db.FriendshipExists(ctx, a, b)
}

func (s *Service) HasPendingRequest(ctx context.Context, from, to uuid.UUID) (bool, error) {
	return s.db.PendingRequestExists(ctx, from, to)
}

// Block records the block and exits the blocker's membership in the
// pair's room, if one exists. The room and its history survive; the
// blocker simply stops seeing anything until a future re-entry.
func (s *Service) Block(ctx context.Context, blocker, target uuid.UUID) error {
	if err := s.db.CreateBlock(ctx, blocker, target); err != nil {
		return err
	}
	room, err := s.db.FindRoomByPair(ctx, blocker, target)
	if err != nil {
		return err
	}
	if room == nil {
		return nil
	}
	return s.db.ClearJoined(ctx, room.ID, blocker)
}

func (s *Service) Unblock(ctx context.Context, blocker, target uuid.UUID) error {
	return s.db.DeleteBlock(ctx, blocker, target)
}

func (s *Service) RequestFriend(ctx context.Context, from, to uuid.UUID) error {
	return s.db.CreateFriendRequest(ctx, from, to)
}

func (s *Service) AcceptFriend(ctx context.Context, from, to uuid.UUID) error {
	return s.db.AcceptFriendRequest(ctx, from, to)
}
