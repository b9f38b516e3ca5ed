// Package syncer maps the four user intents onto backend requests and keeps
// the store in line with the server.
//
// Every mutation is a two-step exchange: the request itself, then an
// unconditional re-fetch of the whole list. Nothing is applied to the store
// optimistically. Failures are logged and returned; they never change state.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/store"
)

// ErrNoEditTarget is returned by Update when the edit draft has no id. No
// request is issued in that case.
var ErrNoEditTarget = errors.New("edit draft has no record id")

// Backend is the REST resource the syncer talks to.
type Backend interface {
	List(ctx context.Context) ([]record.Record, error)
	Create(ctx context.Context, d record.Draft) (*record.Record, error)
	Update(ctx context.Context, id int64, d record.Draft) (*record.Record, error)
	Delete(ctx context.Context, id int64) error
}

// Syncer binds a Backend to a Store.
type Syncer struct {
	backend Backend
	store   *store.Store
	logger  *logger.Logger
}

// New creates a Syncer.
func New(backend Backend, st *store.Store, log *logger.Logger) (*Syncer, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Syncer{backend: backend, store: st, logger: log}, nil
}

// Store returns the store the syncer writes to.
func (s *Syncer) Store() *store.Store {
	return s.store
}

// List fetches the records and replaces the displayed list. On failure the
// previous list is kept.
func (s *Syncer) List(ctx context.Context) error {
	records, err := s.backend.List(ctx)
	if err != nil {
		s.logger.WithOperation("list").Errorw("Error fetching records", "error", err)
		return err
	}
	s.store.ReplaceRecords(records)
	s.logger.WithOperation("list").Debugw("Records refreshed", "count", len(records))
	return nil
}

// Create posts the new-record draft. On success the draft is cleared and the
// list re-fetched.
func (s *Syncer) Create(ctx context.Context) error {
	draft := s.store.NewDraft()
	log := s.logger.WithOperation("create")

	created, err := s.backend.Create(ctx, draft)
	if err != nil {
		log.Errorw("Error adding record", "error", err)
		return err
	}
	log.WithRecord(created.ID).Infow("Record added", "name", draft.Name)

	s.store.ClearNewDraft()
	return s.List(ctx)
}

// Update patches the record targeted by the edit draft. Without an id it is a
// no-op. On success the edit draft is cleared and the list re-fetched.
func (s *Syncer) Update(ctx context.Context) error {
	draft := s.store.EditDraft()
	log := s.logger.WithOperation("update")

	if !draft.HasID() {
		log.Debug("Skipping update: edit draft has no record id")
		return ErrNoEditTarget
	}
	id := draft.TargetID()

	if _, err := s.backend.Update(ctx, id, draft); err != nil {
		log.WithRecord(id).Errorw("Error updating record", "error", err)
		return err
	}
	log.WithRecord(id).Info("Record updated")

	s.store.ClearEditDraft()
	return s.List(ctx)
}

// Delete removes the record with the given id and re-fetches the list.
func (s *Syncer) Delete(ctx context.Context, id int64) error {
	log := s.logger.WithOperation("delete").WithRecord(id)

	if err := s.backend.Delete(ctx, id); err != nil {
		log.Errorw("Error deleting record", "error", err)
		return err
	}
	log.Info("Record deleted")

	return s.List(ctx)
}
