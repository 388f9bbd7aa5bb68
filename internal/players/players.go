package players

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a player ID does not exist (or is archived
// where the call excludes archived rows).
var ErrNotFound = errors.New("player not found")

// Player is one roster entry. Wins accumulate across rounds; Active controls
// participation in the next round; Archived hides a player without losing
// their history.
type Player struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Wins      int       `db:"wins" json:"wins"`
	Active    bool      `db:"active" json:"active"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Archived  bool      `db:"archived" json:"archived,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Store persists the roster in Postgres.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open DB handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// List returns the roster, optionally including archived players, ordered by
// creation time.
func (s *Store) List(ctx context.Context, includeArchived bool) ([]Player, error) {
	query := `SELECT id, name, wins, active, avatar_url, archived, created_at FROM players`
	if !includeArchived {
		query += ` WHERE archived = FALSE`
	}
	query += ` ORDER BY created_at, id`

	var out []Player
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return out, nil
}

// Active returns the players eligible for the next round.
func (s *Store) Active(ctx context.Context) ([]Player, error) {
	var out []Player
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, wins, active, avatar_url, archived, created_at
		 FROM players WHERE active = TRUE AND archived = FALSE ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}
	return out, nil
}

// Get returns one player by ID.
func (s *Store) Get(ctx context.Context, id int) (*Player, error) {
	var p Player
	err := s.db.GetContext(ctx, &p,
		`SELECT id, name, wins, active, avatar_url, archived, created_at FROM players WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return &p, nil
}

// Create adds a roster entry, active by default.
func (s *Store) Create(ctx context.Context, name, avatarURL string) (*Player, error) {
	var p Player
	err := s.db.GetContext(ctx, &p,
		`INSERT INTO players (name, avatar_url) VALUES ($1, $2)
		 RETURNING id, name, wins, active, avatar_url, archived, created_at`,
		name, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &p, nil
}

// Update changes name, avatar and active flag.
func (s *Store) Update(ctx context.Context, id int, name, avatarURL string, active bool) (*Player, error) {
	var p Player
	err := s.db.GetContext(ctx, &p,
		`UPDATE players SET name = $2, avatar_url = $3, active = $4 WHERE id = $1
		 RETURNING id, name, wins, active, avatar_url, archived, created_at`,
		id, name, avatarURL, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update player %d: %w", id, err)
	}
	return &p, nil
}

// Archive hides a player from the roster and from future rounds.
func (s *Store) Archive(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET archived = TRUE, active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive player %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordWins increments the win counter of every given player. Called once
// per decided round with the players mapped to the winning buckets.
func (s *Store) RecordWins(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE players SET wins = wins + 1 WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build wins update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("record wins for %v: %w", ids, err)
	}
	return nil
}
