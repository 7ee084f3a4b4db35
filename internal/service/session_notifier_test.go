package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisPublisher struct {
	lastChannel string
	lastMessage interface{}
	err         error
}

func (m *mockRedisPublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	m.lastChannel = channel
	m.lastMessage = message
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

type fakeRedisSubscription struct {
	mu         sync.Mutex
	msgs       chan *redis.Message
	receiveErr error
	closes     int
}

func (f *fakeRedisSubscription) Receive(context.Context) (interface{}, error) {
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	return &redis.Subscription{Kind: "subscribe", Count: 1}, nil
}

func (f *fakeRedisSubscription) Channel(...redis.ChannelOption) <-chan *redis.Message {
	return f.msgs
}

func (f *fakeRedisSubscription) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeRedisSubscription) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func newSubscribingNotifier(sub *fakeRedisSubscription, channels *[]string) *redisSessionNotifier {
	return &redisSessionNotifier{
		prefix: "session:updates:",
		subscribe: func(_ context.Context, channel string) redisSubscription {
			*channels = append(*channels, channel)
			return sub
		},
	}
}

func TestMemorySessionNotifier(t *testing.T) {
	n := NewMemorySessionNotifier()
	ctx := context.Background()

	ch, cancel, err := n.Subscribe(ctx, "s1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	other, cancelOther, _ := n.Subscribe(ctx, "s2")
	defer cancelOther()

	_ = n.Publish(ctx, "s1")
	_ = n.Publish(ctx, "s1")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected notification")
	}
	select {
	case <-ch:
		t.Fatalf("expected consecutive notifications to coalesce")
	default:
	}
	select {
	case <-other:
		t.Fatalf("expected no notification for other session")
	default:
	}

	cancel()
	cancel()
	_ = n.Publish(ctx, "s1")
	select {
	case <-ch:
		t.Fatalf("expected no notification after cancel")
	default:
	}
}

func TestRedisSessionNotifierPublish(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		if NewRedisSessionNotifier(nil) != nil {
			t.Fatalf("expected nil notifier without client")
		}
	})

	t.Run("publishes on prefixed channel", func(t *testing.T) {
		mock := &mockRedisPublisher{}
		n := &redisSessionNotifier{publisher: mock, prefix: "session:updates:"}
		if err := n.Publish(context.Background(), " abc "); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mock.lastChannel != "session:updates:abc" {
			t.Fatalf("unexpected channel %q", mock.lastChannel)
		}
	})

	t.Run("empty id is ignored", func(t *testing.T) {
		mock := &mockRedisPublisher{}
		n := &redisSessionNotifier{publisher: mock, prefix: "session:updates:"}
		if err := n.Publish(context.Background(), "  "); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mock.lastChannel != "" {
			t.Fatalf("expected no publish, got %q", mock.lastChannel)
		}
	})

	t.Run("propagates redis errors", func(t *testing.T) {
		mock := &mockRedisPublisher{err: errors.New("redis down")}
		n := &redisSessionNotifier{publisher: mock, prefix: "session:updates:"}
		if err := n.Publish(context.Background(), "abc"); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestRedisSessionNotifierSubscribe(t *testing.T) {
	t.Run("forwards and coalesces messages", func(t *testing.T) {
		sub := &fakeRedisSubscription{msgs: make(chan *redis.Message, 8)}
		for i := 0; i < 3; i++ {
			sub.msgs <- &redis.Message{Channel: "session:updates:abc", Payload: "changed"}
		}
		var channels []string
		n := newSubscribingNotifier(sub, &channels)

		ch, cancel, err := n.Subscribe(context.Background(), " abc ")
		if err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		defer cancel()
		if len(channels) != 1 || channels[0] != "session:updates:abc" {
			t.Fatalf("unexpected channels %v", channels)
		}

		deadline := time.Now().Add(time.Second)
		for len(sub.msgs) > 0 {
			if time.Now().After(deadline) {
				t.Fatalf("messages were not consumed")
			}
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(20 * time.Millisecond)

		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("expected notification")
		}
		select {
		case <-ch:
			t.Fatalf("expected back-to-back messages to coalesce into one notification")
		case <-time.After(50 * time.Millisecond):
		}

		sub.msgs <- &redis.Message{Channel: "session:updates:abc", Payload: "changed"}
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("expected notification for a later message")
		}
	})

	t.Run("cancel closes the pubsub once and stops forwarding", func(t *testing.T) {
		sub := &fakeRedisSubscription{msgs: make(chan *redis.Message, 1)}
		var channels []string
		n := newSubscribingNotifier(sub, &channels)

		ch, cancel, err := n.Subscribe(context.Background(), "abc")
		if err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		cancel()
		cancel()
		if got := sub.closeCount(); got != 1 {
			t.Fatalf("expected pubsub closed once, got %d", got)
		}

		time.Sleep(20 * time.Millisecond)
		sub.msgs <- &redis.Message{Channel: "session:updates:abc", Payload: "changed"}
		select {
		case <-ch:
			t.Fatalf("expected no notification after cancel")
		case <-time.After(50 * time.Millisecond):
		}
		if len(sub.msgs) != 1 {
			t.Fatalf("expected forwarding goroutine to have stopped")
		}
	})

	t.Run("closed message channel ends forwarding", func(t *testing.T) {
		sub := &fakeRedisSubscription{msgs: make(chan *redis.Message)}
		var channels []string
		n := newSubscribingNotifier(sub, &channels)

		ch, cancel, err := n.Subscribe(context.Background(), "abc")
		if err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		defer cancel()
		close(sub.msgs)
		select {
		case <-ch:
			t.Fatalf("expected no notification from a closed channel")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("receive error closes the pubsub", func(t *testing.T) {
		sub := &fakeRedisSubscription{msgs: make(chan *redis.Message), receiveErr: errors.New("redis down")}
		var channels []string
		n := newSubscribingNotifier(sub, &channels)

		if _, _, err := n.Subscribe(context.Background(), "abc"); err == nil {
			t.Fatalf("expected error")
		}
		if got := sub.closeCount(); got != 1 {
			t.Fatalf("expected pubsub closed after failed subscribe, got %d", got)
		}
	})
}
