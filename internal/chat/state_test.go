package chat

import (
	"testing"
	"time"

	"github.com/pairup-dev/pairup-server/internal/models"
)

func TestStateOf(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		membership *models.Membership
		want       JoinState
	}{
		{name: "no row means never joined", membership: nil, want: StateNeverJoined},
		{name: "null join marker means exited", membership: &models.Membership{}, want: StateExited},
		{name: "set join marker means active", membership: &models.Membership{LastJoinedAt: &now}, want: StateActive},
		{
			name:       "view marker alone does not activate",
			membership: &models.Membership{LastViewedAt: &now},
			want:       StateExited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.membership); got != tt.want {
				t.Errorf("StateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
