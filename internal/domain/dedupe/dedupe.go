// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen submission IDs so each wardrobe submission is
// ingested at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID so the submission can be retried. Use it
	// when a submission was recorded but failed to reach the queue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

type entry struct {
	id   string
	next *entry
}

func (e *entry) reset() {
	e.id = ""
	e.next = nil
}

// inMemoryDeduper keeps seen IDs in a map. In bounded mode a singly
// linked list tracks insertion order so the oldest IDs can be evicted;
// entries are recycled through a sync.Pool. With maxSize <= 0 the map
// grows without limit.
type inMemoryDeduper struct {
	mu        sync.Mutex
	seen      map[string]*entry // nil values in unbounded mode
	newest    *entry
	maxSize   int
	size      atomic.Int64
	entryPool sync.Pool
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*entry)
	if d.maxSize > 0 {
		d.entryPool = sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		}
	}
	return d
}

// SeenAndRecord atomically checks whether id was seen and records it if
// not. Returns true if id was already seen.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}

		e := d.entryPool.Get().(*entry)
		e.id = id
		e.next = d.newest
		d.newest = e
		d.seen[id] = e
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID so the submission can be retried.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)

	if d.maxSize > 0 {
		if d.newest == e {
			d.newest = e.next
		} else {
			current := d.newest
			for current != nil && current.next != e {
				current = current.next
			}
			if current != nil {
				current.next = e.next
			}
		}
		e.reset()
		d.entryPool.Put(e)
	}
	d.size.Add(-1)
}

// evictOldest drops the entry at the tail of the list, the one recorded
// longest ago. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if d.newest == nil {
		return
	}

	var prev *entry
	current := d.newest
	for current.next != nil {
		prev = current
		current = current.next
	}

	if prev == nil {
		d.newest = nil
	} else {
		prev.next = nil
	}
	delete(d.seen, current.id)
	current.reset()
	d.entryPool.Put(current)
	d.size.Add(-1)
}

// Size returns the current number of recorded IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
