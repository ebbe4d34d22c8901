package icache

import (
	"sync"

	"github.com/openscap-go/icache/value"
)

// DefaultQueueCapacity is the RingQueue capacity used by New when
// WithQueueCapacity isn't provided. Treated as a configuration
// constant rather than hardcoded throughout, per spec §4.2.
const DefaultQueueCapacity = 128

// Filter is the item-filtering predicate applied by Collect before
// submission; returning true drops the item.
type Filter func(*value.Item) bool

// Context bundles the collaborators Collect needs: the Cache to submit
// into, the Sink items are ultimately appended to, and an optional set
// of Filters.
type Context struct {
	Cache   *Cache
	Sink    Sink
	Filters []Filter
}

// CollectResult reports what Collect did with an item.
type CollectResult int

const (
	// Kept indicates the item was submitted to the cache.
	Kept CollectResult = iota
	// Filtered indicates a Filter matched and the item was dropped.
	Filtered
)

// Cache is the public handle for the item-deduplication cache. Create
// one with New; call Free exactly once when done. Between those calls,
// Submit, Barrier, and Collect are safe to call from any number of
// goroutines.
type Cache struct {
	queue    *ringQueue
	index    *index
	log      *eventLogger
	poisoned *poisonFlag

	closeOnce sync.Once
	closed    chan struct{}
	workerWG  sync.WaitGroup
}

// Option configures a Cache constructed by New.
type Option func(*config)

type config struct {
	queueCapacity int
	logger        *eventLogger
}

// WithQueueCapacity overrides DefaultQueueCapacity.
func WithQueueCapacity(n int) Option {
	return func(c *config) { c.queueCapacity = n }
}

// WithLogger overrides the default stumpy-backed structured logger.
func WithLogger(l *eventLogger) Option {
	return func(c *config) { c.logger = l }
}

// New allocates a Cache, spawns its worker, and returns a handle. There
// is no failure mode in this implementation that doesn't already panic
// (allocation failure isn't a recoverable Go condition), so the
// language-neutral "Cache handle or failure" result (spec §6) collapses
// to a bare *Cache; the error return is kept for parity with Submit
// and Barrier and to leave room for future validated Options.
func New(opts ...Option) (*Cache, error) {
	cfg := config{queueCapacity: DefaultQueueCapacity}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}

	c := &Cache{
		queue:    newRingQueue(cfg.queueCapacity),
		index:    newIndex(),
		log:      cfg.logger,
		poisoned: &poisonFlag{},
		closed:   make(chan struct{}),
	}

	w := &worker{queue: c.queue, index: c.index, log: c.log, poisoned: c.poisoned}
	c.workerWG.Add(1)
	go func() {
		defer c.workerWG.Done()
		w.run()
	}()

	return c, nil
}

// Submit enqueues item for processing by sink, rejecting nil arguments.
// Ownership of item transfers to the Cache on success; on failure, the
// caller retains ownership and must Release it itself if appropriate.
func (c *Cache) Submit(sink Sink, item *value.Item) error {
	if sink == nil || item == nil {
		return ErrNilArgument
	}
	if c.poisoned.isSet() {
		return ErrCachePoisoned
	}

	c.queue.mu.Lock()
	ok := c.queue.pushNolock(queueEntry{sink: sink, item: item})
	c.queue.mu.Unlock()

	if !ok {
		return ErrClosed
	}

	c.queue.signalNotEmpty()
	return nil
}

// Barrier waits until every item submitted by the calling goroutine
// before this call has been fully processed by the worker. It makes no
// guarantee about items submitted by other goroutines concurrently,
// beyond whatever incidental ordering the shared queue produces (spec
// §4.5, §9).
func (c *Cache) Barrier() error {
	if c.poisoned.isSet() {
		return ErrCachePoisoned
	}

	done := make(chan struct{})

	c.queue.mu.Lock()
	ok := c.queue.pushNolock(queueEntry{barrier: done})
	c.queue.mu.Unlock()

	if !ok {
		return ErrClosed
	}

	c.queue.signalNotEmpty()

	select {
	case <-done:
		if c.poisoned.isSet() {
			return ErrCachePoisoned
		}
		return nil
	case <-c.closed:
		return ErrClosed
	}
}

// Collect applies ctx.Filters to item before submission: a matching
// filter drops the item (releasing its reference) and reports
// Filtered, without minting an ID. Otherwise it submits via ctx.Cache,
// reporting Kept. On a Submit failure, item is released and the error
// is returned. A nil ctx, ctx.Sink or item is rejected with
// ErrNilArgument before anything else happens; otherwise Collect always
// consumes item, one way or another.
func Collect(ctx *Context, item *value.Item) (CollectResult, error) {
	if ctx == nil || ctx.Sink == nil || item == nil {
		return Kept, ErrNilArgument
	}

	for _, f := range ctx.Filters {
		if f(item) {
			item.Release()
			return Filtered, nil
		}
	}

	if err := ctx.Cache.Submit(ctx.Sink, item); err != nil {
		item.Release()
		return Kept, err
	}

	return Kept, nil
}

// Free cancels the worker, waits for it to finish, and releases every
// interned item. Free assumes no producer is concurrently calling
// Submit or Barrier; doing so is a programming error (spec §5).
func (c *Cache) Free() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.queue.shutdown()
		c.workerWG.Wait()

		c.index.drain(func(chain *internedChain) {
			for _, it := range chain.items {
				it.Release()
			}
		})
	})
}
