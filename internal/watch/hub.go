// Package watch fans out data-invalidation signals to connected clients.
// Services publish a topic after every successful mutation; each streaming
// session holds individually revocable subscriptions and re-runs the
// visibility resolver when its topics fire. Signals travel over redis
// pub/sub so every instance behind the load balancer wakes its own
// streams.
package watch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const invalidateChannel = "sitetrack:invalidate"

// Topics services may notify on.
const (
	TopicProjects = "projects"
	TopicReports  = "reports"
	TopicUsers    = "users"
)

type Hub struct {
	rdb    *redis.Client
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan struct{}
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:  rdb,
		subs: make(map[string]map[uint64]chan struct{}),
	}
}

// Run consumes the invalidation channel until ctx is cancelled. It must be
// running for subscriptions to fire.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, invalidateChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.fanOut(msg.Payload)
		}
	}
}

// Notify publishes an invalidation for the topic. Failures are logged,
// not returned: a missed wakeup degrades freshness, never correctness.
func (h *Hub) Notify(ctx context.Context, topic string) {
	if err := h.rdb.Publish(ctx, invalidateChannel, topic).Err(); err != nil {
		slog.Error("watch notify failed", "topic", topic, "error", err)
	}
}

func (h *Hub) fanOut(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending signal.
		}
	}
}

// subscribe registers a signal channel for the topic and returns it with
// its cancel func. Cancellation is synchronous: once cancel returns the
// channel will never fire again.
func (h *Hub) subscribe(topic string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan struct{}, 1)
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[uint64]chan struct{})
	}
	h.subs[topic][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[topic], id)
	}
	return ch, cancel
}

// subscriberCount is a test hook.
func (h *Hub) subscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
