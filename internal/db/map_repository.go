package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/mapgen/internal/bitmap"
	"github.com/udisondev/mapgen/internal/generator"
	"github.com/udisondev/mapgen/internal/spawn"
)

// StoredMap is an archived map.
type StoredMap struct {
	ID        int64
	Name      string
	Width     int
	Height    int
	Digest    []byte
	ZCount    int
	PCount    int
	Body      string
	CreatedAt time.Time

	// Filled by LoadByDigest only.
	Z []bitmap.Coord
	P []bitmap.Coord
}

// MapRepository stores generated maps and their spawn points.
// It satisfies generator.Archiver.
type MapRepository struct {
	pool *pgxpool.Pool
}

// NewMapRepository creates a new map repository.
func NewMapRepository(pool *pgxpool.Pool) *MapRepository {
	return &MapRepository{pool: pool}
}

// Save archives res with its spawns in a single transaction.
// Maps are keyed by content digest; saving an identical map again is a no-op.
func (r *MapRepository) Save(ctx context.Context, res *generator.Result) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for map %q: %w", res.Name, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "map", res.Name, "error", err)
		}
	}()

	var mapID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO maps (name, width, height, digest, z_count, p_count, body)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (digest) DO NOTHING
		 RETURNING id`,
		res.Name, res.Width, res.Height, res.Digest[:], len(res.Spawns.Z), len(res.Spawns.P), res.Text,
	).Scan(&mapID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Debug("map already archived", "map", res.Name, "digest", res.DigestHex())
		return nil
	}
	if err != nil {
		return fmt.Errorf("inserting map %q: %w", res.Name, err)
	}

	rows := make([][]any, 0, res.Spawns.Len())
	for i, c := range res.Spawns.Z {
		rows = append(rows, []any{mapID, string(spawn.KindZombie.Symbol()), i, c.X, c.Y})
	}
	for i, c := range res.Spawns.P {
		rows = append(rows, []any{mapID, string(spawn.KindPickup.Symbol()), i, c.X, c.Y})
	}

	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"map_spawns"},
			[]string{"map_id", "kind", "ord", "x", "y"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("inserting spawns for map %q: %w", res.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing map %q: %w", res.Name, err)
	}
	return nil
}

// LoadByDigest loads a map and its spawns by content digest.
// Returns nil, nil if the map does not exist.
func (r *MapRepository) LoadByDigest(ctx context.Context, digest []byte) (*StoredMap, error) {
	var m StoredMap
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, width, height, digest, z_count, p_count, body, created_at
		 FROM maps WHERE digest = $1`, digest,
	).Scan(&m.ID, &m.Name, &m.Width, &m.Height, &m.Digest, &m.ZCount, &m.PCount, &m.Body, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying map %x: %w", digest, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT kind, x, y FROM map_spawns WHERE map_id = $1 ORDER BY kind DESC, ord`, m.ID)
	if err != nil {
		return nil, fmt.Errorf("querying spawns for map %d: %w", m.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind string
			c    bitmap.Coord
		)
		if err := rows.Scan(&kind, &c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}
		switch kind {
		case string(spawn.KindZombie.Symbol()):
			m.Z = append(m.Z, c)
		case string(spawn.KindPickup.Symbol()):
			m.P = append(m.P, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}

	return &m, nil
}

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// List returns the most recently archived maps without spawn lists.
func (r *MapRepository) List(ctx context.Context, limit int) ([]StoredMap, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, width, height, digest, z_count, p_count, body, created_at
		 FROM maps ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing maps: %w", err)
	}
	defer rows.Close()

	maps := make([]StoredMap, 0, limit)
	for rows.Next() {
		var m StoredMap
		if err := rows.Scan(&m.ID, &m.Name, &m.Width, &m.Height, &m.Digest, &m.ZCount, &m.PCount, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning map row: %w", err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating map rows: %w", err)
	}

	return maps, nil
}
