package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type capture struct {
	mu     sync.Mutex
	events []RoomJoinedEvent
	err    error
}

func (c *capture) publish(_ context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	var ev RoomJoinedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	c.events = append(c.events, ev)
	return nil
}

func TestNotifier_DeliversQueuedEvents(t *testing.T) {
	c := &capture{}
	n := newNotifier(c.publish, zap.NewNop().Sugar())

	member, room := uuid.New(), uuid.New()
	n.RoomJoined(member, room)
	n.RoomJoined(uuid.New(), room)
	n.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) != 2 {
		t.Fatalf("published %d events, want 2", len(c.events))
	}
	if c.events[0].MemberID != member || c.events[0].RoomID != room {
		t.Fatalf("first event = %+v, want member %s room %s", c.events[0], member, room)
	}
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	c := &capture{err: errors.New("redis down")}
	n := newNotifier(c.publish, zap.NewNop().Sugar())

	// Failures must neither block nor propagate; Close still drains.
	for i := 0; i < 10; i++ {
		n.RoomJoined(uuid.New(), uuid.New())
	}
	n.Close()
}
