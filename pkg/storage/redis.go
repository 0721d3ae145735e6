package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/broadcast"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	redisclient "github.com/angelmondragon/storefront-client/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type subscription interface {
	Messages() <-chan string
	Close() error
}

type redisBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel, message string) error
	subscribe(ctx context.Context, channel string) (subscription, error)
	StorageKey(name string) string
	EventsChannel() string
}

type redisAdapter struct {
	*redisclient.Client
}

func (a redisAdapter) subscribe(ctx context.Context, channel string) (subscription, error) {
	return a.Subscribe(ctx, channel)
}

// Redis stores values in Redis and relays writes from other handles through
// a Redis pub/sub channel.
type Redis struct {
	backend redisBackend
	origin  string
	logg    *logger.Logger
	events  *broadcast.Subject[string]
	sub     subscription
	closer  func() error

	closeOnce sync.Once
	done      chan struct{}
}

// NewRedis subscribes to the storage events channel and returns a handle.
// When owned is true, Close also closes client.
func NewRedis(ctx context.Context, client *redisclient.Client, owned bool, logg *logger.Logger) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	var closer func() error
	if owned {
		closer = client.Close
	}
	return newRedisStore(ctx, redisAdapter{client}, closer, logg)
}

func newRedisStore(ctx context.Context, backend redisBackend, closer func() error, logg *logger.Logger) (*Redis, error) {
	sub, err := backend.subscribe(ctx, backend.EventsChannel())
	if err != nil {
		return nil, err
	}
	r := &Redis{
		backend: backend,
		origin:  uuid.NewString(),
		logg:    logg,
		events:  broadcast.NewSubject[string](),
		sub:     sub,
		closer:  closer,
		done:    make(chan struct{}),
	}
	go r.relay()
	return r, nil
}

func (r *Redis) relay() {
	defer close(r.done)
	for payload := range r.sub.Messages() {
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			r.logg.Warn(context.Background(), "storage.redis.bad_event")
			continue
		}
		if ev.Origin == r.origin {
			continue
		}
		r.events.Publish(ev.Key)
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.backend.Get(ctx, r.backend.StorageKey(key))
	if errors.Is(err, redisclient.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.backend.Set(ctx, r.backend.StorageKey(key), value, 0); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.announce(ctx, key)
	return nil
}

func (r *Redis) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = r.backend.StorageKey(key)
	}
	if err := r.backend.Del(ctx, namespaced...); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	for _, key := range keys {
		r.announce(ctx, key)
	}
	return nil
}

// announce is best effort: the write itself already succeeded.
func (r *Redis) announce(ctx context.Context, key string) {
	payload, err := json.Marshal(Event{Origin: r.origin, Key: key})
	if err != nil {
		return
	}
	if err := r.backend.Publish(ctx, r.backend.EventsChannel(), string(payload)); err != nil {
		r.logg.Error(r.logg.WithField(ctx, "key", key), "storage.redis.publish_failed", err)
	}
}

func (r *Redis) Watch(fn func(key string)) func() {
	return r.events.Subscribe(fn)
}

func (r *Redis) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.sub.Close()
		<-r.done
		if r.closer != nil {
			err = multierr.Append(err, r.closer())
		}
	})
	return err
}
