package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/recallmesh/core"
)

// Entry is one embedded memory held by the in-memory store.
type Entry struct {
	ID          string
	Content     string
	Vector      []float64
	Metadata    core.Metadata
	CreatedAt   time.Time
	Importance  *float64
	SecondaryID string
}

// InMemoryStore is a process-local VectorStore partitioned by user. Query is
// an exact cosine-distance scan; fine for tests and small local deployments,
// swap for a real ANN index in production.
//
// Concurrency: protected by RWMutex. Reads operate on copies so callers can
// never mutate internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry // userID -> entries
}

// NewInMemoryStore constructs an empty in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]Entry)}
}

// Add inserts an entry for the user. A zero CreatedAt is stamped with now.
func (s *InMemoryStore) Add(_ context.Context, userID string, e Entry) error {
	if len(e.Vector) == 0 {
		return fmt.Errorf("entry %s has an empty vector", e.ID)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = append(s.entries[userID], e)
	return nil
}

// Delete removes the entry with the given id, if present.
func (s *InMemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries[userID]
	for i, e := range entries {
		if e.ID == id {
			s.entries[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry %s not found", id)
}

// Query implements core.VectorStore using exact cosine distance.
func (s *InMemoryStore) Query(_ context.Context, userID string, vector []float64, limit int, where map[string]string) ([]core.VectorMatch, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryNorm := floats.Norm(vector, 2)
	if queryNorm == 0 {
		return nil, fmt.Errorf("query vector has zero norm")
	}

	var matches []core.VectorMatch
	for _, e := range s.entries[userID] {
		if len(e.Vector) != len(vector) {
			continue
		}
		if !matchesWhere(e.Metadata, where) {
			continue
		}
		norm := floats.Norm(e.Vector, 2)
		if norm == 0 {
			continue
		}
		cosine := floats.Dot(vector, e.Vector) / (queryNorm * norm)
		matches = append(matches, toMatch(e, 1-cosine))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Scan implements core.VectorStore returning entries most-recent-first.
func (s *InMemoryStore) Scan(_ context.Context, userID string, where map[string]string, limit, offset int) ([]core.VectorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []core.VectorMatch
	for _, e := range s.entries[userID] {
		if !matchesWhere(e.Metadata, where) {
			continue
		}
		matches = append(matches, toMatch(e, 0))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func toMatch(e Entry, distance float64) core.VectorMatch {
	return core.VectorMatch{
		ID:          e.ID,
		Content:     e.Content,
		Metadata:    copyMetadata(e.Metadata),
		CreatedAt:   e.CreatedAt,
		Distance:    distance,
		Importance:  e.Importance,
		SecondaryID: e.SecondaryID,
	}
}

// matchesWhere applies conjunctive equality filters against the typed fields
// and the generic bag.
func matchesWhere(md core.Metadata, where map[string]string) bool {
	for k, want := range where {
		switch k {
		case "location":
			if md.Location != want {
				return false
			}
		default:
			got, ok := md.Extra[k]
			if !ok || fmt.Sprint(got) != want {
				return false
			}
		}
	}
	return true
}

func copyMetadata(md core.Metadata) core.Metadata {
	out := core.Metadata{
		Tags:         append([]string(nil), md.Tags...),
		Participants: append([]string(nil), md.Participants...),
		Location:     md.Location,
	}
	if md.Extra != nil {
		out.Extra = make(map[string]any, len(md.Extra))
		for k, v := range md.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

var _ core.VectorStore = (*InMemoryStore)(nil)
