package watch

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	// Give the pubsub consumer a moment to attach.
	time.Sleep(50 * time.Millisecond)
	return hub
}

func waitSignal(t *testing.T, ch <-chan struct{}) bool {
	t.Helper()
	select {
	case <-ch:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestNotifyDeliversToSubscribedTopic(t *testing.T) {
	hub := newTestHub(t)
	session := hub.NewSession()
	defer session.Close()

	projects := session.Subscribe(TopicProjects)
	reports := session.Subscribe(TopicReports)

	hub.Notify(context.Background(), TopicProjects)

	if !waitSignal(t, projects) {
		t.Fatal("projects subscription did not fire")
	}
	select {
	case <-reports:
		t.Fatal("reports subscription fired for a projects notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestResetRevokesBeforeResubscribe(t *testing.T) {
	hub := newTestHub(t)
	session := hub.NewSession()
	defer session.Close()

	old := session.Subscribe(TopicProjects)
	session.Reset()

	if n := hub.subscriberCount(TopicProjects); n != 0 {
		t.Fatalf("reset must leave no subscriptions, found %d", n)
	}

	// Resubscribe after the barrier; only the new channel may fire.
	fresh := session.Subscribe(TopicProjects)
	hub.Notify(context.Background(), TopicProjects)

	if !waitSignal(t, fresh) {
		t.Fatal("fresh subscription did not fire")
	}
	select {
	case <-old:
		t.Fatal("revoked subscription fired after reset")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCoalescedSignals(t *testing.T) {
	hub := newTestHub(t)
	session := hub.NewSession()
	defer session.Close()

	ch := session.Subscribe(TopicReports)

	ctx := context.Background()
	hub.Notify(ctx, TopicReports)
	hub.Notify(ctx, TopicReports)
	hub.Notify(ctx, TopicReports)

	if !waitSignal(t, ch) {
		t.Fatal("subscription did not fire")
	}
	// Burst notifications coalesce into at most one pending signal.
	select {
	case <-ch:
	case <-time.After(200 * time.Millisecond):
	}
	select {
	case <-ch:
		t.Fatal("more than one pending signal buffered")
	case <-time.After(100 * time.Millisecond):
	}
}
