// ABOUTME: Tests for the poll cursor seen-set.
// ABOUTME: Validates atomic check-and-mark, TTL expiry, eviction, and concurrency safety.

package dedupe

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCursor_CheckAndMark_New(t *testing.T) {
	cursor := New(5*time.Minute, 100)
	defer cursor.Close()

	assert.False(t, cursor.CheckAndMark("key-1"), "first sighting is not a duplicate")
	assert.True(t, cursor.CheckAndMark("key-1"), "second sighting is a duplicate")
}

func TestCursor_CheckAndMark_Expired(t *testing.T) {
	cursor := New(10*time.Millisecond, 100)
	defer cursor.Close()

	assert.False(t, cursor.CheckAndMark("expiring-key"))

	time.Sleep(20 * time.Millisecond)

	// Expired entries are treated as unseen again.
	assert.False(t, cursor.CheckAndMark("expiring-key"))
}

func TestCursor_EvictsOldestAtCapacity(t *testing.T) {
	cursor := New(5*time.Minute, 3)
	defer cursor.Close()

	cursor.CheckAndMark("key-1")
	cursor.CheckAndMark("key-2")
	cursor.CheckAndMark("key-3")
	cursor.CheckAndMark("key-4")

	assert.Equal(t, 3, cursor.Len())
	assert.False(t, cursor.CheckAndMark("key-1"), "oldest key should have been evicted")
}

func TestCursor_Concurrent(t *testing.T) {
	cursor := New(5*time.Minute, 10_000)
	defer cursor.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cursor.CheckAndMark(fmt.Sprintf("key-%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, cursor.Len())
}

func TestCursor_Close_Idempotent(t *testing.T) {
	cursor := New(5*time.Minute, 100)
	cursor.Close()
	cursor.Close()
}

func TestKey_IndependentOfReportedOffset(t *testing.T) {
	local := time.Date(2026, 1, 9, 8, 20, 13, 0, time.FixedZone("", 3600))
	utc := time.Date(2026, 1, 9, 7, 20, 13, 0, time.UTC)

	assert.Equal(t,
		Key("123", "+1555", "hi", local),
		Key("123", "+1555", "hi", utc),
		"same instant must produce the same key regardless of zone")
}
