package access

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testOwner = "owner@shop.io"

func TestGate_IsAuthorized(t *testing.T) {
	ctx := context.Background()

	t.Run("owner short-circuits without store access", func(t *testing.T) {
		repo := new(MockAllowListRepository)
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())

		assert.True(t, gate.IsAuthorized(ctx, "  OWNER@Shop.IO "))
		repo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("empty email is denied", func(t *testing.T) {
		repo := new(MockAllowListRepository)
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())

		assert.False(t, gate.IsAuthorized(ctx, ""))
		assert.False(t, gate.IsAuthorized(ctx, "   "))
		repo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("listed email is allowed regardless of case", func(t *testing.T) {
		repo := new(MockAllowListRepository)
		repo.On("FindAll", mock.Anything).Return([]access.AllowedAdmin{{Email: "staff@shop.io"}}, nil).Once()
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())

		assert.True(t, gate.IsAuthorized(ctx, "Staff@Shop.io"))
		assert.False(t, gate.IsAuthorized(ctx, "stranger@shop.io"))
		repo.AssertNumberOfCalls(t, "FindAll", 1)
	})

	t.Run("fetch failure fails closed to owner only", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		repo := new(MockAllowListRepository)
		repo.On("FindAll", mock.Anything).Return(nil, errors.New("unavailable")).Once()
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.New(core))

		assert.False(t, gate.IsAuthorized(ctx, "staff@shop.io"))
		assert.True(t, gate.IsAuthorized(ctx, testOwner))
		assert.Equal(t, []string{testOwner}, gate.Members(ctx))
		assert.Equal(t, 1, logs.FilterMessageSnippet("restricting access to owner").Len())
		repo.AssertNumberOfCalls(t, "FindAll", 1)
	})
}

func TestGate_CacheLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("cache is reused until invalidated", func(t *testing.T) {
		repo := newMemoryAllowList("staff@shop.io")
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())

		assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"))
		_ = repo.Delete(ctx, "staff@shop.io")
		assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"), "stale until invalidated")

		gate.InvalidateLocal()
		assert.False(t, gate.IsAuthorized(ctx, "staff@shop.io"))
	})

	t.Run("owner-only cache recovers after invalidation", func(t *testing.T) {
		repo := newMemoryAllowList("staff@shop.io")
		repo.fail = errors.New("unavailable")
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())

		assert.False(t, gate.IsAuthorized(ctx, "staff@shop.io"))
		repo.fail = nil
		assert.False(t, gate.IsAuthorized(ctx, "staff@shop.io"))

		gate.InvalidateLocal()
		assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"))
	})

	t.Run("ttl expires cached value", func(t *testing.T) {
		repo := newMemoryAllowList("staff@shop.io")
		gate := NewGate(access.NewOwner(testOwner), repo, NewAllowListCache(time.Minute), zap.NewNop())
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		gate.now = func() time.Time { return now }

		assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"))
		_ = repo.Delete(ctx, "staff@shop.io")

		now = now.Add(30 * time.Second)
		assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"))

		now = now.Add(time.Minute)
		assert.False(t, gate.IsAuthorized(ctx, "staff@shop.io"))
	})

	t.Run("invalidate broadcasts to other replicas", func(t *testing.T) {
		publisher := new(MockInvalidationPublisher)
		publisher.On("PublishInvalidation", mock.Anything).Return(nil).Once()
		gate := NewGate(access.NewOwner(testOwner), newMemoryAllowList(), nil, zap.NewNop())
		gate.SetInvalidationPublisher(publisher)

		gate.Invalidate(ctx)
		publisher.AssertExpectations(t)
	})

	t.Run("broadcast failure still invalidates locally", func(t *testing.T) {
		repo := newMemoryAllowList("staff@shop.io")
		publisher := new(MockInvalidationPublisher)
		publisher.On("PublishInvalidation", mock.Anything).Return(errors.New("redis down"))
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())
		gate.SetInvalidationPublisher(publisher)

		assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"))
		_ = repo.Delete(ctx, "staff@shop.io")
		gate.Invalidate(ctx)
		assert.False(t, gate.IsAuthorized(ctx, "staff@shop.io"))
	})

	t.Run("concurrent checks share one fetch", func(t *testing.T) {
		repo := new(MockAllowListRepository)
		repo.On("FindAll", mock.Anything).
			After(20*time.Millisecond).
			Return([]access.AllowedAdmin{{Email: "staff@shop.io"}}, nil)
		gate := NewGate(access.NewOwner(testOwner), repo, nil, zap.NewNop())

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.True(t, gate.IsAuthorized(ctx, "staff@shop.io"))
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, len(repo.Calls), 2)
	})
}

func TestAllowListCache(t *testing.T) {
	now := time.Now()
	cache := NewAllowListCache(0)

	_, ok := cache.lookup(now)
	assert.False(t, ok)

	gen := cache.Generation()
	assert.True(t, cache.store(map[string]struct{}{"a@b.co": {}}, gen, now))
	validAt, loaded := cache.ValidAt()
	assert.True(t, loaded)
	assert.Equal(t, now, validAt)

	cache.Invalidate()
	assert.False(t, cache.store(map[string]struct{}{"a@b.co": {}}, gen, now), "stale generation is discarded")
	_, ok = cache.lookup(now)
	assert.False(t, ok)
}
