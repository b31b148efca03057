package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-cli/internal/model"
)

// Pool is the subset of *pgxpool.Pool used by PostgresStore. pgxmock
// pools satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	kind         TEXT NOT NULL,
	name         TEXT NOT NULL,
	jurisdiction TEXT NOT NULL DEFAULT '',
	profile      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_profiles_kind ON profiles(kind);
CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles(lower(name));
CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, p *model.Profile) (*Snapshot, error) {
	snap, data, err := newSnapshot(uuid.New().String(), p, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO profiles (id, kind, name, jurisdiction, profile, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		snap.ID, string(snap.Kind), snap.Name, snap.Jurisdiction, data, snap.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert profile")
	}
	return snap, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, kind, name, jurisdiction, profile, created_at FROM profiles WHERE id = $1`,
		id,
	)
	snap, err := scanPgSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get profile %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get profile %s", id)
	}
	return snap, nil
}

func (s *PostgresStore) ListProfiles(ctx context.Context, filter ProfileFilter) ([]Snapshot, error) {
	query := `SELECT id, kind, name, jurisdiction, profile, created_at FROM profiles WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Kind != "" {
		query += fmt.Sprintf(` AND kind = $%d`, argIdx)
		args = append(args, string(filter.Kind))
		argIdx++
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, argIdx)
		args = append(args, "%"+name+"%")
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, argIdx)
	args = append(args, filter.limit())
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list profiles")
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanPgSnapshot(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan profile")
		}
		snaps = append(snaps, *snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: list profiles iterate")
}

func scanPgSnapshot(row pgx.Row) (*Snapshot, error) {
	var snap Snapshot
	var kind string
	var data []byte
	if err := row.Scan(&snap.ID, &kind, &snap.Name, &snap.Jurisdiction, &data, &snap.CreatedAt); err != nil {
		return nil, err
	}
	snap.Kind = model.SubjectKind(kind)
	snap.CreatedAt = snap.CreatedAt.UTC()
	if err := decodeProfile(&snap, data); err != nil {
		return nil, err
	}
	return &snap, nil
}
