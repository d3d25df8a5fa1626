package moderation

import (
	"sort"
	"sync"

	"mediamod/internal/models"
)

// Store is the keyed in-memory collection of media items. The pending,
// approved and rejected partitions are derived views computed on read, never
// stored separately, so they cannot drift out of sync.
//
// Items are only mutated through the Service; the intake poller inserts and
// readers get copies.
type Store struct {
	mu    sync.RWMutex
	items map[string]*models.MediaItem
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]*models.MediaItem)}
}

// Insert adds a new item. Ids are never reused; a colliding id fails with
// ErrDuplicateID.
func (s *Store) Insert(item *models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return ErrDuplicateID
	}
	s.items[item.ID] = item.Clone()
	return nil
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (*models.MediaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item.Clone(), nil
}

// List returns copies of all items with the given status, oldest first.
// An empty status returns everything.
func (s *Store) List(status string) []models.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MediaItem, 0)
	for _, item := range s.items {
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, *item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Counts returns the number of items per status partition.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, item := range s.items {
		counts[item.Status]++
	}
	return counts
}

// Len returns the total number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// update applies fn to the stored item under the write lock and returns a
// copy of the result. If fn returns an error the item is left untouched.
func (s *Store) update(id string, fn func(*models.MediaItem) error) (*models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	scratch := item.Clone()
	if err := fn(scratch); err != nil {
		return nil, err
	}
	s.items[id] = scratch
	return scratch.Clone(), nil
}
