package history

import (
	"strings"
	"sync"
	"time"

	"codeberg.org/snonux/odialipi/internal"
)

// DefaultCapacity is the number of entries kept
const DefaultCapacity = 10

// Item is a single past conversion
type Item struct {
	ID             string
	Original       string
	Transliterated string
	Timestamp      time.Time
}

// NewItem creates an item with a fresh ID and the current time
func NewItem(original, transliterated string) Item {
	return Item{
		ID:             internal.GenerateEntryID(original),
		Original:       original,
		Transliterated: transliterated,
		Timestamp:      time.Now(),
	}
}

// Cache is a bounded, deduplicated, most-recent-first list of items
type Cache struct {
	mu       sync.RWMutex
	items    []Item
	capacity int
}

// NewCache creates a cache holding at most capacity items.
// If capacity is 0 or negative, DefaultCapacity is used.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		items:    make([]Item, 0, capacity),
		capacity: capacity,
	}
}

// Upsert removes any entry with the same Original (ignoring case), puts
// item first and drops whatever no longer fits.
func (c *Cache) Upsert(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, 0, c.capacity)
	items = append(items, item)
	for _, existing := range c.items {
		if strings.EqualFold(existing.Original, item.Original) {
			continue
		}
		if len(items) == c.capacity {
			break
		}
		items = append(items, existing)
	}

	c.items = items
}

// Clear removes all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]Item, 0, c.capacity)
}

// Items returns a copy of the entries, most recent first
func (c *Cache) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries
func (c *Cache) Capacity() int {
	return c.capacity
}

// Get finds an entry by ID
func (c *Cache) Get(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Lookup finds an entry by source text, ignoring case
func (c *Cache) Lookup(original string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if strings.EqualFold(item.Original, original) {
			return item, true
		}
	}
	return Item{}, false
}
