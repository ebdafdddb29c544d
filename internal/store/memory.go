// internal/store/memory.go
//
// In-memory implementation of the round Store interface.
// Holds live rounds between "new" and "detonate" requests.
//
// Characteristics:
//   - Stores *round.Round objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; finished rounds are persisted
//     to SQLite by the HTTP layer.
//   - ErrNotFound is returned for missing round IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/chainreaction/internal/round"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("store: round not found")

// Store defines the persistence interface for live rounds.
type Store interface {
	// Save persists or updates a round.
	Save(ctx context.Context, r *round.Round) error

	// Get retrieves a round by ID.
	Get(ctx context.Context, id string) (*round.Round, error)
}

type memory struct {
	mu     sync.RWMutex
	rounds map[string]*round.Round
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*round.Round)}
}

func (m *memory) Save(ctx context.Context, r *round.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*round.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}
