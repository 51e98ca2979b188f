package pipeline

import (
	"context"
	"sync"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
	"github.com/couchcryptid/fwi-risk-service/internal/observability"
)

// Handler answers a single prediction request.
type Handler interface {
	Handle(ctx context.Context, req domain.PredictionRequest) domain.Response
}

// CachedHandler wraps a Handler with an in-memory LRU cache of successful
// responses. Handle is deterministic for a fixed model, so a hit is
// indistinguishable from a fresh computation.
type CachedHandler struct {
	inner   Handler
	cache   *lruCache[domain.PredictionRequest, domain.PredictionResult]
	metrics *observability.Metrics
}

// NewCachedHandler creates a cache decorator holding up to maxEntries responses.
func NewCachedHandler(inner Handler, maxEntries int, metrics *observability.Metrics) *CachedHandler {
	return &CachedHandler{
		inner:   inner,
		cache:   newLRUCache[domain.PredictionRequest, domain.PredictionResult](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedHandler) Handle(ctx context.Context, req domain.PredictionRequest) domain.Response {
	if result, ok := c.cache.get(req); ok {
		c.metrics.PredictionCacheHits.Inc()
		return domain.Response{Prediction: clonePrediction(result)}
	}
	resp := c.inner.Handle(ctx, req)
	// Only cache predictions so error responses are always recomputed.
	if resp.OK() {
		c.cache.put(req, *clonePrediction(*resp.Prediction))
	}
	return resp
}

// CheckReadiness delegates to the wrapped handler when it reports readiness.
func (c *CachedHandler) CheckReadiness(ctx context.Context) error {
	if r, ok := c.inner.(interface{ CheckReadiness(context.Context) error }); ok {
		return r.CheckReadiness(ctx)
	}
	return nil
}

func clonePrediction(p domain.PredictionResult) *domain.PredictionResult {
	p.Recommendations = append([]string(nil), p.Recommendations...)
	return &p
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[K comparable, V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

func newLRUCache[K comparable, V any](maxEntries int) *lruCache[K, V] {
	return &lruCache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
