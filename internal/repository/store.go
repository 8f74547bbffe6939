package repository

import (
	"context"

	"github.com/iliyamo/combat-tiers/internal/model"
)

// PlayerStore is the persistence contract for player records. Records are
// always written whole: there are no partial updates and no operation spans
// more than one row.
type PlayerStore interface {
	// Create inserts p and sets p.ID to the newly assigned identifier.
	Create(ctx context.Context, p *model.Player) error
	// ListAll returns every player ordered by id descending, then tierClass
	// descending, region ascending, rank ascending and maceTier ascending.
	ListAll(ctx context.Context) ([]*model.Player, error)
	// Update replaces the row identified by p.ID. It returns
	// ErrPlayerNotFound when no such row exists.
	Update(ctx context.Context, p *model.Player) error
	// Delete removes the row with the given id, or returns ErrPlayerNotFound.
	Delete(ctx context.Context, id int64) error
}
