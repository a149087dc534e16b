package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrFeedClosed is returned by Subscribe once the feed has stopped
var ErrFeedClosed = shared.NewDomainError("FEED_CLOSED", "Product feed is not running")

var errWatchEnded = errors.New("product watch ended")

// ProductFeed keeps the latest catalog snapshot and fans it out to subscribers.
// Snapshots are shared between subscribers and must not be modified.
type ProductFeed struct {
	watcher catalog.ProductWatcher
	logger  *zap.Logger
	retry   backoff.BackOff

	mu        sync.RWMutex
	latest    []catalog.Product
	hasLatest bool
	closed    bool
	subs      map[uint64]*Subscription
	nextID    uint64
}

// Subscription is a handle on the feed. Updates always holds the newest
// snapshot not yet received; older undelivered snapshots are dropped.
type Subscription struct {
	feed *ProductFeed
	id   uint64
	ch   chan []catalog.Product
	stop func() bool // guarded by feed.mu
	once sync.Once
}

// FeedOption configures a ProductFeed
type FeedOption func(*ProductFeed)

// WithRetryBackOff sets the delay policy between failed watches
func WithRetryBackOff(b backoff.BackOff) FeedOption {
	return func(f *ProductFeed) {
		f.retry = b
	}
}

// NewProductFeed creates a feed over watcher
func NewProductFeed(watcher catalog.ProductWatcher, logger *zap.Logger, opts ...FeedOption) *ProductFeed {
	f := &ProductFeed{
		watcher: watcher,
		logger:  logger,
		subs:    make(map[uint64]*Subscription),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.retry == nil {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = time.Second
		exp.MaxInterval = time.Minute
		f.retry = exp
	}
	return f
}

// Run consumes the upstream watcher until ctx ends. A failed watch is
// restarted after a backoff delay; subscribers stay attached and keep the
// last snapshot meanwhile. All subscriptions are closed when Run returns.
func (f *ProductFeed) Run(ctx context.Context) error {
	defer f.close()

	f.retry.Reset()
	for {
		var delivered atomic.Bool
		err := f.watcher.Watch(ctx, func(snapshot []catalog.Product) {
			delivered.Store(true)
			f.publish(snapshot)
		})
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errWatchEnded
		}
		if delivered.Load() {
			f.retry.Reset()
		}

		delay := f.retry.NextBackOff()
		f.logger.Warn("Product watch failed, restarting",
			zap.Error(err),
			zap.Duration("retry_in", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// Subscribe registers a new subscriber. The latest snapshot, when known, is
// delivered first. Cancelling ctx releases the subscription.
func (f *ProductFeed) Subscribe(ctx context.Context) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFeedClosed
	}
	f.nextID++
	sub := &Subscription{
		feed: f,
		id:   f.nextID,
		ch:   make(chan []catalog.Product, 1),
	}
	if f.hasLatest {
		sub.ch <- f.latest
	}
	f.subs[sub.id] = sub
	f.mu.Unlock()

	stop := context.AfterFunc(ctx, sub.Unsubscribe)
	f.mu.Lock()
	sub.stop = stop
	f.mu.Unlock()
	return sub, nil
}

// Latest returns the most recent snapshot and whether one has arrived yet
func (f *ProductFeed) Latest() ([]catalog.Product, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.hasLatest
}

// Subscribers returns the number of active subscriptions
func (f *ProductFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func (f *ProductFeed) publish(snapshot []catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = snapshot
	f.hasLatest = true
	for _, sub := range f.subs {
		sub.offer(snapshot)
	}
	f.logger.Debug("Product snapshot published",
		zap.Int("products", len(snapshot)),
		zap.Int("subscribers", len(f.subs)))
}

func (f *ProductFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for id, sub := range f.subs {
		if sub.stop != nil {
			sub.stop()
		}
		delete(f.subs, id)
		close(sub.ch)
	}
}

func (f *ProductFeed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub.stop != nil {
		sub.stop()
	}
	if _, ok := f.subs[sub.id]; !ok {
		return
	}
	delete(f.subs, sub.id)
	close(sub.ch)
}

// Updates delivers snapshots. It is closed after Unsubscribe or when the feed stops.
func (s *Subscription) Updates() <-chan []catalog.Product {
	return s.ch
}

// Unsubscribe releases the subscription. Calling it more than once is safe.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.feed.remove(s) })
}

// offer replaces any undelivered snapshot with the newest one. Caller holds feed.mu.
func (s *Subscription) offer(snapshot []catalog.Product) {
	select {
	case s.ch <- snapshot:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snapshot:
	default:
	}
}
