package posts

import (
	"sort"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Table holds the in-memory post dataset. Access is guarded with an RWMutex
// so the HTTP handlers, the MQ consumer, and the scheduled reloader can
// share it. Posts with an id already seen are dropped at append time using a
// Bloom filter; the filter is sized generously so false positives stay rare.
type Table struct {
	posts []*Post
	seen  *bloom.BloomFilter
	mu    sync.RWMutex
}

// NewTable creates an empty Table sized for the expected dataset.
func NewTable(expectedPosts uint) *Table {
	if expectedPosts == 0 {
		expectedPosts = 100000
	}
	return &Table{
		seen: bloom.NewWithEstimates(expectedPosts, 0.001),
	}
}

// Append adds a post unless its id was already seen. Returns true if the
// post was added. Posts without an id are always appended since there is
// nothing to dedup on.
func (t *Table) Append(p *Post) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.ID != "" {
		if t.seen.TestString(p.ID) {
			return false
		}
		t.seen.AddString(p.ID)
	}
	t.posts = append(t.posts, p)
	return true
}

// Len returns the number of posts in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.posts)
}

// Snapshot returns a copy of the post slice. The Post pointers are shared;
// callers that annotate must copy the structs first.
func (t *Table) Snapshot() []*Post {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := make([]*Post, len(t.posts))
	copy(snapshot, t.posts)
	return snapshot
}

// FilterDomain returns copies of every post whose domain contains the query
// as a case-insensitive substring. An empty or whitespace-only query matches
// nothing, and posts with an empty domain never match. The result is sorted
// by timestamp ascending so downstream resampling gets ordered input.
func (t *Table) FilterDomain(query string) []Post {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var matched []Post
	for _, p := range t.posts {
		if p.Domain == "" {
			continue
		}
		if strings.Contains(strings.ToLower(p.Domain), query) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Unix < matched[j].Unix
	})
	return matched
}

// Replace swaps the table contents for a freshly loaded set. Used by the
// scheduled reload so readers never see a half-loaded table.
func (t *Table) Replace(other *Table) {
	other.mu.RLock()
	posts := make([]*Post, len(other.posts))
	copy(posts, other.posts)
	seen := other.seen
	other.mu.RUnlock()

	t.mu.Lock()
	t.posts = posts
	t.seen = seen
	t.mu.Unlock()
}
