package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultAllowListChannel is the Pub/Sub channel carrying allow-list invalidations
	DefaultAllowListChannel = "shopadmin:allowlist:invalidate"

	defaultCloseTimeout = 5 * time.Second
)

// InvalidationMessage is broadcast whenever one replica changes the allow-list
type InvalidationMessage struct {
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// RedisAllowListInvalidator fans allow-list invalidations out to every replica
// using Redis Pub/Sub. Messages published by this instance are ignored on receipt,
// since the publisher has already dropped its own cache.
type RedisAllowListInvalidator struct {
	client    redis.UniversalClient
	channel   string
	origin    string
	logger    *zap.Logger
	now       func() time.Time
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisAllowListInvalidatorOption is a functional option for configuring the invalidator
type RedisAllowListInvalidatorOption func(*RedisAllowListInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisAllowListInvalidatorOption {
	return func(i *RedisAllowListInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisAllowListInvalidatorOption {
	return func(i *RedisAllowListInvalidator) {
		i.logger = logger
	}
}

// WithInvalidatorOrigin overrides the generated instance id
func WithInvalidatorOrigin(origin string) RedisAllowListInvalidatorOption {
	return func(i *RedisAllowListInvalidator) {
		i.origin = origin
	}
}

// NewRedisAllowListInvalidator creates an invalidator on a shared client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisAllowListInvalidator(client redis.UniversalClient, opts ...RedisAllowListInvalidatorOption) *RedisAllowListInvalidator {
	i := &RedisAllowListInvalidator{
		client:  client,
		channel: DefaultAllowListChannel,
		origin:  uuid.NewString(),
		logger:  zap.NewNop(),
		now:     time.Now,
		doneCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Origin returns the instance id stamped on published messages
func (i *RedisAllowListInvalidator) Origin() string {
	return i.origin
}

// PublishInvalidation tells the other replicas to drop their allow-list cache
func (i *RedisAllowListInvalidator) PublishInvalidation(ctx context.Context) error {
	data, err := json.Marshal(InvalidationMessage{
		Origin:    i.origin,
		Timestamp: i.now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish allow-list invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}

	i.logger.Debug("Published allow-list invalidation",
		zap.String("channel", i.channel),
		zap.String("origin", i.origin))

	return nil
}

// Subscribe listens for invalidations from other replicas and calls invalidate
// for each one. It blocks until ctx is cancelled or Close is called.
func (i *RedisAllowListInvalidator) Subscribe(ctx context.Context, invalidate func()) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		i.markDone()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("Subscribed to allow-list invalidation channel",
		zap.String("channel", i.channel),
		zap.String("origin", i.origin))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Allow-list invalidation subscription stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Allow-list invalidation channel closed")
				return nil
			}
			i.handle(msg.Payload, invalidate)
		}
	}
}

// handle decodes one payload and runs invalidate unless the message is our own.
func (i *RedisAllowListInvalidator) handle(payload string, invalidate func()) bool {
	var msg InvalidationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		i.logger.Error("Failed to unmarshal allow-list invalidation",
			zap.String("payload", payload),
			zap.Error(err))
		return false
	}
	if msg.Origin == i.origin {
		return false
	}

	i.logger.Debug("Received allow-list invalidation",
		zap.String("origin", msg.Origin))

	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic in allow-list invalidation callback",
				zap.Any("panic", r))
		}
	}()
	invalidate()
	return true
}

func (i *RedisAllowListInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops a running subscription. The Redis client is left open.
func (i *RedisAllowListInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn == nil {
		return nil
	}
	cancelFn()

	select {
	case <-i.doneCh:
	case <-time.After(defaultCloseTimeout):
		i.logger.Warn("Timeout waiting for allow-list subscription to stop")
	}
	return nil
}
