package naming

import (
	"fmt"
	"sync"
)

// CollisionResolver tracks slugs claimed by spreadsheet rows within a run and
// resolves duplicates by appending "_N" suffixes, so two rows with the same
// title never overwrite each other's video. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // slug → row key that owns it
	counters map[string]int    // base slug → next suffix
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Claim marks slug as owned by owner without resolving. Used to seed the
// resolver with slugs already present in the output directory.
func (cr *CollisionResolver) Claim(owner, slug string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.owners[slug] = owner
}

// Resolve returns the final slug for owner. If slug is unclaimed (or already
// owned by owner) it is returned as-is; otherwise a "_N" variant is
// generated, starting at 2.
func (cr *CollisionResolver) Resolve(owner, slug string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	cur, exists := cr.owners[slug]
	if !exists || cur == owner {
		cr.owners[slug] = owner
		return slug
	}

	counter := cr.counters[slug]
	if counter == 0 {
		counter = 2
	}
	for {
		candidate := fmt.Sprintf("%s_%d", slug, counter)
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == owner {
			cr.counters[slug] = counter + 1
			cr.owners[candidate] = owner
			return candidate
		}
		counter++
	}
}
