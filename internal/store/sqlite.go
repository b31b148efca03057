package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/profile-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	name         TEXT NOT NULL,
	jurisdiction TEXT NOT NULL DEFAULT '',
	profile      TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_profiles_kind ON profiles(kind);
CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles(name);
CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, p *model.Profile) (*Snapshot, error) {
	snap, data, err := newSnapshot(uuid.New().String(), p, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, kind, name, jurisdiction, profile, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, string(snap.Kind), snap.Name, snap.Jurisdiction, string(data), snap.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert profile")
	}
	return snap, nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, name, jurisdiction, profile, created_at FROM profiles WHERE id = ?`,
		id,
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get profile %s", id)
	}
	return snap, err
}

func (s *SQLiteStore) ListProfiles(ctx context.Context, filter ProfileFilter) ([]Snapshot, error) {
	query := `SELECT id, kind, name, jurisdiction, profile, created_at FROM profiles WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query += ` AND lower(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(name)+"%")
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list profiles")
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: list profiles iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scannable) (*Snapshot, error) {
	var snap Snapshot
	var kind, data string
	err := row.Scan(&snap.ID, &kind, &snap.Name, &snap.Jurisdiction, &data, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan profile")
	}
	snap.Kind = model.SubjectKind(kind)
	snap.CreatedAt = snap.CreatedAt.UTC()
	if err := decodeProfile(&snap, []byte(data)); err != nil {
		return nil, err
	}
	return &snap, nil
}
