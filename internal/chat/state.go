package chat

import "github.com/pairup-dev/pairup-server/internal/models"

// JoinState is the explicit membership state carried implicitly by the
// nullable last_joined_at column: no row at all means NeverJoined, a row
// with a null join marker means Exited.
type JoinState int

const (
	StateNeverJoined JoinState = iota
	StateExited
	StateActive
)

func (s JoinState) String() string {
	switch s {
	case StateNeverJoined:
		return "never_joined"
	case StateExited:
		return "exited"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// StateOf derives the join state from a membership row (nil = no row).
func StateOf(m *models.Membership) JoinState {
	switch {
	case m == nil:
		return StateNeverJoined
	case m.LastJoinedAt == nil:
		return StateExited
	}
	return StateActive
}
