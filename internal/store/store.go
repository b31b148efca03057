// Package store persists built profiles as immutable snapshots.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-cli/internal/model"
)

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = eris.New("store: profile not found")

// Snapshot is one saved profile together with its index columns.
type Snapshot struct {
	ID           string            `json:"id"`
	Kind         model.SubjectKind `json:"kind"`
	Name         string            `json:"name"`
	Jurisdiction string            `json:"jurisdiction,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	Profile      *model.Profile    `json:"profile"`
}

// ProfileFilter specifies criteria for listing snapshots. Name matches
// case-insensitively as a substring.
type ProfileFilter struct {
	Kind   model.SubjectKind `json:"kind,omitempty"`
	Name   string            `json:"name,omitempty"`
	Limit  int               `json:"limit,omitempty"`
	Offset int               `json:"offset,omitempty"`
}

const defaultListLimit = 100

func (f ProfileFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for profile snapshots.
type Store interface {
	SaveProfile(ctx context.Context, p *model.Profile) (*Snapshot, error)
	GetProfile(ctx context.Context, id string) (*Snapshot, error)
	ListProfiles(ctx context.Context, filter ProfileFilter) ([]Snapshot, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects a backend. Driver is "sqlite" or "postgres".
type Config struct {
	Driver string      `yaml:"driver" mapstructure:"driver"`
	DSN    string      `yaml:"dsn" mapstructure:"dsn"`
	Pool   *PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// Open connects to the configured backend and runs migrations.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "profiles.db"
		}
		st, err = NewSQLite(dsn)
	case "postgres", "postgresql", "pgx":
		st, err = NewPostgres(ctx, cfg.DSN, cfg.Pool)
	default:
		return nil, model.NewConfigError("store.driver", "unknown store driver "+cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func newSnapshot(id string, p *model.Profile, createdAt time.Time) (*Snapshot, []byte, error) {
	if p == nil {
		return nil, nil, eris.New("store: nil profile")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal profile")
	}
	return &Snapshot{
		ID:           id,
		Kind:         p.Subject.Kind,
		Name:         p.Subject.Name,
		Jurisdiction: p.Subject.Jurisdiction,
		CreatedAt:    createdAt,
		Profile:      p,
	}, data, nil
}

func decodeProfile(s *Snapshot, data []byte) error {
	s.Profile = &model.Profile{}
	return eris.Wrapf(json.Unmarshal(data, s.Profile), "store: unmarshal profile %s", s.ID)
}
