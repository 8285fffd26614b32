package filters

import (
	"net/url"
	"sync"
)

// History is the navigation stack behind the address URL.
type History interface {
	Current() *url.URL
	// Replace overwrites the current entry without adding a new one.
	Replace(u *url.URL)
	// Push appends a new entry and makes it current.
	Push(u *url.URL)
	// Back drops the current entry and returns the previous one. It reports
	// false when there is nothing to go back to.
	Back() (*url.URL, bool)
}

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []*url.URL
}

func NewMemoryHistory(start *url.URL) *MemoryHistory {
	if start == nil {
		start = &url.URL{Path: "/"}
	}
	return &MemoryHistory{entries: []*url.URL{clone(start)}}
}

func (h *MemoryHistory) Current() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.entries[len(h.entries)-1])
}

func (h *MemoryHistory) Replace(u *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = clone(u)
}

func (h *MemoryHistory) Push(u *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, clone(u))
}

func (h *MemoryHistory) Back() (*url.URL, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return clone(h.entries[0]), false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return clone(h.entries[len(h.entries)-1]), true
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func clone(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
