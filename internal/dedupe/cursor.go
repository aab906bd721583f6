// ABOUTME: In-memory session cursor tracking message tuples a poller has already submitted.
// ABOUTME: A cache only - the store's uniqueness constraint is the authoritative dedup.

package dedupe

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// cursorEntry stores the timestamp and list element for a cached key.
type cursorEntry struct {
	markedAt time.Time
	element  *list.Element
}

// Cursor is a thread-safe, TTL-based, size-limited seen-set for message
// tuples. Pollers consult it to skip re-submitting messages already handed
// to the store this session. Losing an entry (expiry, eviction, restart) is
// harmless: the store's uniqueness constraint still rejects the duplicate.
type Cursor struct {
	mu      sync.Mutex
	seen    map[string]*cursorEntry
	order   *list.List // keys in mark order, oldest at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// Key builds the cursor key for a message tuple. The timestamp is rendered
// in UTC so the key is independent of the offset the firmware reported.
func Key(imei, sender, text string, ts time.Time) string {
	return strings.Join([]string{imei, sender, text, ts.UTC().Format(time.RFC3339)}, "\x1f")
}

// New creates a cursor with the given TTL and maximum size.
// A background goroutine periodically removes expired entries.
func New(ttl time.Duration, maxSize int) *Cursor {
	c := &Cursor{
		seen:    make(map[string]*cursorEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// CheckAndMark atomically checks whether a key has been seen and marks it if
// not. Returns true if the key was already seen. The single call avoids a
// check/mark race between poll cycles.
func (c *Cursor) CheckAndMark(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.seen[key]
	if ok && time.Since(entry.markedAt) < c.ttl {
		return true
	}

	c.markLocked(key)
	return false
}

// Len returns the number of tracked keys.
func (c *Cursor) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// markLocked records a key. Must be called with mu held.
func (c *Cursor) markLocked(key string) {
	now := time.Now()

	if entry, exists := c.seen[key]; exists {
		entry.markedAt = now
		c.order.MoveToBack(entry.element)
		return
	}

	if len(c.seen) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(key)
	c.seen[key] = &cursorEntry{
		markedAt: now,
		element:  elem,
	}
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cursor) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.seen, key)
}

// cleanup periodically removes expired entries until Close is called.
func (c *Cursor) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

func (c *Cursor) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.seen {
		if now.Sub(entry.markedAt) > c.ttl {
			c.order.Remove(entry.element)
			delete(c.seen, key)
		}
	}
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (c *Cursor) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
