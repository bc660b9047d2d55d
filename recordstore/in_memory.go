package recordstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/recallmesh/core"
)

// InMemoryStore is a volatile RecordStore holding the typed record families
// in process-local maps. Safe for concurrent access; query results are copies
// so callers can never mutate internal state. Best suited for tests and
// ephemeral demo servers.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]core.EventRow
	affect map[string][]core.AffectRow
	skills map[string][]core.SkillRow
}

// NewInMemoryStore constructs an empty in-memory record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events: make(map[string][]core.EventRow),
		affect: make(map[string][]core.AffectRow),
		skills: make(map[string][]core.SkillRow),
	}
}

// AddEvent stores an event row, generating an id when absent, and returns it.
func (s *InMemoryStore) AddEvent(_ context.Context, row core.EventRow) (string, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[row.UserID] = append(s.events[row.UserID], row)
	return row.ID, nil
}

// AddAffect stores an affect row, generating an id when absent, and returns it.
func (s *InMemoryStore) AddAffect(_ context.Context, row core.AffectRow) (string, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.affect[row.UserID] = append(s.affect[row.UserID], row)
	return row.ID, nil
}

// AddSkill stores a skill row, generating an id when absent, and returns it.
func (s *InMemoryStore) AddSkill(_ context.Context, row core.SkillRow) (string, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[row.UserID] = append(s.skills[row.UserID], row)
	return row.ID, nil
}

// QueryEvents implements core.RecordStore. Results are most-recent-first.
func (s *InMemoryStore) QueryEvents(_ context.Context, userID string, f core.EventFilter) ([]core.EventRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.EventRow
	for _, row := range s.events[userID] {
		if f.Start != nil && row.OccurredAt.Before(*f.Start) {
			continue
		}
		if f.End != nil && row.OccurredAt.After(*f.End) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return capRows(out, f.Limit), nil
}

// QueryAffect implements core.RecordStore. Results are most-recent-first.
func (s *InMemoryStore) QueryAffect(_ context.Context, userID string, f core.AffectFilter) ([]core.AffectRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]core.AffectRow(nil), s.affect[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID < out[j].ID
	})
	return capRows(out, f.Limit), nil
}

// QuerySkills implements core.RecordStore. Results are ordered by last
// practice time, most recent first.
func (s *InMemoryStore) QuerySkills(_ context.Context, userID string, f core.SkillFilter) ([]core.SkillRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]core.SkillRow(nil), s.skills[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastPracticed.Equal(out[j].LastPracticed) {
			return out[i].LastPracticed.After(out[j].LastPracticed)
		}
		return out[i].ID < out[j].ID
	})
	return capRows(out, f.Limit), nil
}

func capRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return append([]T(nil), rows...)
}

var _ core.RecordStore = (*InMemoryStore)(nil)
