package access

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/shopadmin/backend/internal/domain/access"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Gate answers whether an identity may use the admin panel. The owner is
// always allowed without touching the store; everyone else must be on the
// cached allow-list. A failed fetch caches an owner-only list.
type Gate struct {
	owner     access.Owner
	repo      access.AllowListRepository
	cache     *AllowListCache
	loads     singleflight.Group
	publisher InvalidationPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewGate creates an authorization gate
func NewGate(owner access.Owner, repo access.AllowListRepository, cache *AllowListCache, logger *zap.Logger) *Gate {
	if cache == nil {
		cache = NewAllowListCache(0)
	}
	return &Gate{
		owner:  owner,
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// SetInvalidationPublisher broadcasts future invalidations to other replicas
func (g *Gate) SetInvalidationPublisher(p InvalidationPublisher) {
	g.publisher = p
}

// Owner returns the implicit allow-list member
func (g *Gate) Owner() access.Owner {
	return g.owner
}

// IsAuthorized reports whether email may use the admin panel
func (g *Gate) IsAuthorized(ctx context.Context, email string) bool {
	email = access.NormalizeEmail(email)
	if email == "" {
		return false
	}
	if g.owner.Matches(email) {
		return true
	}
	_, ok := g.members(ctx)[email]
	return ok
}

// Members returns the effective allow-list, owner included, sorted
func (g *Gate) Members(ctx context.Context) []string {
	set := g.members(ctx)
	out := make([]string, 0, len(set))
	for email := range set {
		out = append(out, email)
	}
	sort.Strings(out)
	return out
}

// Invalidate drops the local cache and tells other replicas to do the same
func (g *Gate) Invalidate(ctx context.Context) {
	g.InvalidateLocal()
	if g.publisher == nil {
		return
	}
	if err := g.publisher.PublishInvalidation(ctx); err != nil {
		g.logger.Warn("Failed to broadcast allow-list invalidation", zap.Error(err))
	}
}

// InvalidateLocal drops the local cache only
func (g *Gate) InvalidateLocal() {
	g.cache.Invalidate()
}

func (g *Gate) members(ctx context.Context) map[string]struct{} {
	if m, ok := g.cache.lookup(g.now()); ok {
		return m
	}

	gen := g.cache.Generation()
	v, _, _ := g.loads.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		// Detached so one caller's cancellation cannot cache an owner-only list for everyone
		m := g.fetch(context.WithoutCancel(ctx))
		g.cache.store(m, gen, g.now())
		return m, nil
	})
	return v.(map[string]struct{})
}

func (g *Gate) fetch(ctx context.Context) map[string]struct{} {
	members := map[string]struct{}{g.owner.String(): {}}

	admins, err := g.repo.FindAll(ctx)
	if err != nil {
		g.logger.Warn("Allow-list fetch failed, restricting access to owner", zap.Error(err))
		return members
	}
	for _, a := range admins {
		if email := access.NormalizeEmail(a.Email); email != "" {
			members[email] = struct{}{}
		}
	}
	g.logger.Debug("Allow-list loaded", zap.Int("members", len(members)))
	return members
}
