// Package memory implements an in-memory workspace Store for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wsdetails/internal/workspace"
)

var _ workspace.Store = (*Store)(nil)

// Store implements workspace.Store backed by process memory.
type Store struct {
	mu   sync.RWMutex
	recs map[workspace.Key]workspace.Record
}

// New returns an empty in-memory store.
func New() *Store { return &Store{recs: make(map[workspace.Key]workspace.Record)} }

// Seed creates a record; errors if the key already exists.
func (s *Store) Seed(_ context.Context, rec workspace.Record) error {
	key := workspace.Key{Username: rec.Username, Email: rec.Email}
	if !key.Complete() {
		return workspace.ErrIncompleteKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.recs[key]; exists {
		return fmt.Errorf("workspace %s/%s already exists", key.Username, key.Email)
	}
	s.recs[key] = rec
	return nil
}

// Get returns the record for key restricted to fields.
func (s *Store) Get(_ context.Context, key workspace.Key, fields []workspace.Field) (workspace.Record, bool, error) {
	s.mu.RLock()
	rec, ok := s.recs[key]
	s.mu.RUnlock()
	if !ok {
		return workspace.Record{}, false, nil
	}
	return project(rec, fields), true, nil
}

// Update applies assign to an existing record.
func (s *Store) Update(_ context.Context, key workspace.Key, assign *workspace.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[key]
	if !ok {
		return workspace.ErrNotFound
	}
	if assign == nil {
		return nil
	}
	switch assign.Field {
	case workspace.FieldStatus:
		rec.Status = assign.Value
	default:
		return fmt.Errorf("field %s is not assignable", assign.Field)
	}
	s.recs[key] = rec
	return nil
}

// List returns all records ordered by username then email.
func (s *Store) List(_ context.Context) []workspace.Record {
	s.mu.RLock()
	out := make([]workspace.Record, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].Email < out[j].Email
	})
	return out
}

func project(rec workspace.Record, fields []workspace.Field) workspace.Record {
	if len(fields) == 0 {
		return rec
	}
	var out workspace.Record
	for _, f := range fields {
		switch f {
		case workspace.FieldUsername:
			out.Username = rec.Username
		case workspace.FieldEmail:
			out.Email = rec.Email
		case workspace.FieldStatus:
			out.Status = rec.Status
		}
	}
	return out
}
