// Package store holds the client-side view state: the displayed record list
// and the new-record and edit-record drafts.
package store

import (
	"sync"

	"github.com/dbsmedya/recordsdesk/internal/record"
)

// Snapshot is a point-in-time copy of the store. Renderers only ever see
// snapshots.
type Snapshot struct {
	Records   []record.Record
	NewDraft  record.Draft
	EditDraft record.Draft
}

// Editing reports whether the edit form should be shown.
func (s Snapshot) Editing() bool {
	return s.EditDraft.HasID()
}

// Find returns the record with the given id.
func (s Snapshot) Find(id int64) (record.Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// Store is the state container. All changes go through its transition
// methods; it is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	records   []record.Record
	newDraft  record.Draft
	editDraft record.Draft
}

// New creates a store seeded with the given records.
func New(initial ...record.Record) *Store {
	return &Store{
		records:   cloneRecords(initial),
		newDraft:  record.EmptyDraft(),
		editDraft: record.EmptyDraft(),
	}
}

// ReplaceRecords replaces the whole list with records.
func (s *Store) ReplaceRecords(records []record.Record) {
	cp := cloneRecords(records)
	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()
}

// SetNewDraft replaces the new-record draft.
func (s *Store) SetNewDraft(d record.Draft) {
	s.mu.Lock()
	s.newDraft = cloneDraft(d)
	s.mu.Unlock()
}

// ClearNewDraft resets the new-record draft to empty.
func (s *Store) ClearNewDraft() {
	s.SetNewDraft(record.EmptyDraft())
}

// SetEditDraft replaces the edit-record draft.
func (s *Store) SetEditDraft(d record.Draft) {
	s.mu.Lock()
	s.editDraft = cloneDraft(d)
	s.mu.Unlock()
}

// LoadEdit loads a full row into the edit draft.
func (s *Store) LoadEdit(r record.Record) {
	s.SetEditDraft(record.DraftFrom(r))
}

// ClearEditDraft resets the edit draft, which hides the edit form.
func (s *Store) ClearEditDraft() {
	s.SetEditDraft(record.EmptyDraft())
}

// NewDraft returns a copy of the new-record draft.
func (s *Store) NewDraft() record.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDraft(s.newDraft)
}

// EditDraft returns a copy of the edit-record draft.
func (s *Store) EditDraft() record.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDraft(s.editDraft)
}

// Records returns a copy of the displayed list.
func (s *Store) Records() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Records:   cloneRecords(s.records),
		NewDraft:  cloneDraft(s.newDraft),
		EditDraft: cloneDraft(s.editDraft),
	}
}

func cloneRecords(in []record.Record) []record.Record {
	out := make([]record.Record, len(in))
	copy(out, in)
	return out
}

func cloneDraft(d record.Draft) record.Draft {
	if d.ID != nil {
		id := *d.ID
		d.ID = &id
	}
	return d
}
