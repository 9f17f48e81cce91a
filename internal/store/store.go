// Package store keeps the active project's damage records in process memory.
// One store is owned by exactly one project for the lifetime of a session;
// the mutex only guards against overlapping HTTP requests.
package store

import (
	"sync"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

// RecordStore is an insertion-ordered sequence of damage records. The index
// of a record is its deletion handle.
type RecordStore struct {
	mu    sync.Mutex
	items []core.DamageRecord
	rev   uint64
}

func New() *RecordStore {
	return &RecordStore{}
}

// NewFromRecords seeds a store from a loaded snapshot, preserving order.
func NewFromRecords(records []core.DamageRecord) *RecordStore {
	s := &RecordStore{}
	s.items = append(s.items, records...)
	return s
}

// Append adds a record at the end. Validation belongs to the caller; Append
// always succeeds.
func (s *RecordStore) Append(r core.DamageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	s.rev++
}

// DeleteAt removes and returns the record at index. An out-of-range index is
// a no-op: it returns nil and leaves the store unchanged.
func (s *RecordStore) DeleteAt(index int) *core.DamageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return nil
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.rev++
	return &removed
}

// All returns a copy of the records in insertion order.
func (s *RecordStore) All() []core.DamageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.DamageRecord, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of records.
func (s *RecordStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Revision increments on every mutation. Export caching keys on it so cached
// artifacts are dropped the moment the data changes.
func (s *RecordStore) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}
