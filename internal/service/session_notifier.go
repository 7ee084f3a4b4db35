package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionNotifier avisa que el conjunto de entregas de una sesion cambio.
// Los avisos no llevan datos: quien escucha vuelve a leer el snapshot completo.
// Avisos consecutivos pueden fusionarse en uno.
type SessionNotifier interface {
	Publish(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, func(), error)
}

type memorySessionNotifier struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewMemorySessionNotifier() SessionNotifier {
	return &memorySessionNotifier{
		subs: make(map[string]map[chan struct{}]struct{}),
	}
}

func (n *memorySessionNotifier) Publish(_ context.Context, sessionID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs[sessionID] {
		signal(ch)
	}
	return nil
}

func (n *memorySessionNotifier) Subscribe(_ context.Context, sessionID string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	if n.subs[sessionID] == nil {
		n.subs[sessionID] = make(map[chan struct{}]struct{})
	}
	n.subs[sessionID][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[sessionID], ch)
			if len(n.subs[sessionID]) == 0 {
				delete(n.subs, sessionID)
			}
		})
	}
	return ch, cancel, nil
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// redisSubscription es la parte de *redis.PubSub que usa el notifier.
type redisSubscription interface {
	Receive(ctx context.Context) (interface{}, error)
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

type redisSessionNotifier struct {
	publisher redisPublisher
	subscribe func(ctx context.Context, channel string) redisSubscription
	prefix    string
}

func NewRedisSessionNotifier(client *redis.Client) SessionNotifier {
	if client == nil {
		return nil
	}
	return &redisSessionNotifier{
		publisher: client,
		subscribe: func(ctx context.Context, channel string) redisSubscription {
			return client.Subscribe(ctx, channel)
		},
		prefix: "session:updates:",
	}
}

func (n *redisSessionNotifier) Publish(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return n.publisher.Publish(ctx, n.prefix+sessionID, "changed").Err()
}

func (n *redisSessionNotifier) Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, func(), error) {
	pubsub := n.subscribe(ctx, n.prefix+strings.TrimSpace(sessionID))
	// Espera la confirmacion para no perder avisos publicados justo despues.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				signal(out)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}
	return out, cancel, nil
}

// signal hace un envio no bloqueante; si ya hay un aviso pendiente se fusiona.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
