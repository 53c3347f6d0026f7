package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Channel is the Redis channel the delivery tier subscribes to.
const Channel = "chat:room_joined"

const queueSize = 256

// RoomJoinedEvent tells the delivery tier that a member entered a room.
type RoomJoinedEvent struct {
	MemberID uuid.UUID `json:"member_id"`
	RoomID   uuid.UUID `json:"room_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// Notifier dispatches room-join events at most once, best-effort: the
// caller never blocks, publish failures are logged and dropped, nothing
// is retried.
type Notifier struct {
	publish func(ctx context.Context, payload []byte) error
	log     *zap.SugaredLogger
	events  chan RoomJoinedEvent
	done    chan struct{}
}

func New(rdb *redis.Client, log *zap.SugaredLogger) *Notifier {
	return newNotifier(func(ctx context.Context, payload []byte) error {
		return rdb.Publish(ctx, Channel, payload).Err()
	}, log)
}

func newNotifier(publish func(ctx context.Context, payload []byte) error, log *zap.SugaredLogger) *Notifier {
	n := &Notifier{
		publish: publish,
		log:     log,
		events:  make(chan RoomJoinedEvent, queueSize),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

// RoomJoined queues the event without blocking; when the queue is full
// the event is dropped and logged.
func (n *Notifier) RoomJoined(memberID, roomID uuid.UUID) {
	ev := RoomJoinedEvent{MemberID: memberID, RoomID: roomID, JoinedAt: time.Now()}
	select {
	case n.events <- ev:
	default:
		n.log.Warnw("room join event dropped, queue full",
			"member_id", memberID, "room_id", roomID)
	}
}

// Close stops accepting events and drains what is already queued.
func (n *Notifier) Close() {
	close(n.events)
	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)
	for ev := range n.events {
		payload, err := json.Marshal(ev)
		if err != nil {
			n.log.Errorw("room join event encode failed", "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := n.publish(ctx, payload); err != nil {
			n.log.Warnw("room join notify failed",
				"member_id", ev.MemberID, "room_id", ev.RoomID, "error", err)
		}
		cancel()
	}
}
