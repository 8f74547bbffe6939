// Package memory is an in-process PlayerStore used for local runs without a
// database and for handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/repository"
)

// Store keeps player rows in a map keyed by id. Ids start at 1 and are never
// reused, like an AUTO_INCREMENT column.
type Store struct {
	mu      sync.RWMutex
	players map[int64]*model.Player
	nextID  int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		players: make(map[int64]*model.Player),
		nextID:  1,
	}
}

var _ repository.PlayerStore = (*Store)(nil)

// Create assigns the next id to p and stores a copy.
func (s *Store) Create(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.players[p.ID] = p.Clone()
	return nil
}

// ListAll returns copies of every player in listing order.
func (s *Store) ListAll(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	out := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// Update replaces the player with p.ID, keeping its stored rank.
func (s *Store) Update(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.players[p.ID]
	if !ok {
		return repository.ErrPlayerNotFound
	}
	updated := p.Clone()
	updated.Rank = existing.Rank
	s.players[p.ID] = updated
	return nil
}

// Delete removes the player with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return repository.ErrPlayerNotFound
	}
	delete(s.players, id)
	return nil
}

// less implements ORDER BY id DESC, tierClass DESC, region ASC, rank ASC,
// maceTier ASC with NULLs sorting first on ascending keys, as in MySQL.
func less(a, b *model.Player) bool {
	if a.ID != b.ID {
		return a.ID > b.ID
	}
	if c := compareNullable(a.TierClass, b.TierClass); c != 0 {
		return c > 0
	}
	if c := strings.Compare(a.Region, b.Region); c != 0 {
		return c < 0
	}
	if c := compareNullable(a.Rank, b.Rank); c != 0 {
		return c < 0
	}
	return compareNullable(a.MaceTier, b.MaceTier) < 0
}

func compareNullable(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(*a, *b)
	}
}
