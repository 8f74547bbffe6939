package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/combat-tiers/internal/model"
)

// PlayerRepo is the MySQL implementation of PlayerStore. Every method checks
// out a dedicated connection from the pool and hands it back before
// returning, whatever the outcome.
type PlayerRepo struct {
	db *sql.DB
}

// NewPlayerRepo constructs a PlayerRepo with the provided DB handle.
func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

var _ PlayerStore = (*PlayerRepo)(nil)

const playerColumns = "id, playerName, playerTitle, `rank`, points, tierClass, region, maceTier"

// Create inserts a new player row. On success p.ID holds the auto-generated id.
func (r *PlayerRepo) Create(ctx context.Context, p *model.Player) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	const q = `INSERT INTO players (playerName, playerTitle, points, tierClass, region, maceTier)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := conn.ExecContext(ctx, q,
		p.PlayerName, p.PlayerTitle, p.Points, nullString(p.TierClass), p.Region, nullString(p.MaceTier))
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read insert id: %w", err)
	}
	p.ID = id
	return nil
}

// ListAll returns every player row. id is unique, so in practice the order
// is newest first; the remaining sort keys mirror the historical query.
func (r *PlayerRepo) ListAll(ctx context.Context) ([]*model.Player, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	q := "SELECT " + playerColumns + " FROM players " +
		"ORDER BY id DESC, tierClass DESC, region ASC, `rank` ASC, maceTier ASC"
	rows, err := conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Player, 0)
	for rows.Next() {
		var (
			p                     model.Player
			rank, tierClass, mace sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.PlayerName, &p.PlayerTitle, &rank, &p.Points, &tierClass, &p.Region, &mace); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Rank = stringPtr(rank)
		p.TierClass = stringPtr(tierClass)
		p.MaceTier = stringPtr(mace)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return out, nil
}

// Update overwrites every writable column of the row identified by p.ID.
// The DSN must enable clientFoundRows so that a row rewritten with identical
// values still counts as matched; otherwise it would look missing.
func (r *PlayerRepo) Update(ctx context.Context, p *model.Player) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	const q = `UPDATE players
	           SET playerName = ?, playerTitle = ?, points = ?, tierClass = ?, region = ?, maceTier = ?
	           WHERE id = ?`
	res, err := conn.ExecContext(ctx, q,
		p.PlayerName, p.PlayerTitle, p.Points, nullString(p.TierClass), p.Region, nullString(p.MaceTier), p.ID)
	if err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	return checkAffected(res)
}

// Delete removes the player row with the given id.
func (r *PlayerRepo) Delete(ctx context.Context, id int64) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if n == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
