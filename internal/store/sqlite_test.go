package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testProfile(kind model.SubjectKind, name string) *model.Profile {
	p := model.NewProfile(model.Subject{Kind: kind, Name: name, Jurisdiction: "Germany"},
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	p.PrincipalIdentification.Principals = append(p.PrincipalIdentification.Principals,
		model.Principal{FullName: "Jane Doe", Position: "CEO", Source: "opencorporates"})
	p.ResearchMetadata.MarkProviderUsed("opencorporates")
	return p
}

func TestSQLite_SaveAndGet(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveProfile(ctx, testProfile(model.SubjectOrganization, "Acme Corp"))
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)
	assert.Equal(t, "Acme Corp", saved.Name)
	assert.Equal(t, model.SubjectOrganization, saved.Kind)

	got, err := st.GetProfile(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Germany", got.Jurisdiction)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Acme Corp", got.Profile.Subject.Name)
	require.Len(t, got.Profile.PrincipalIdentification.Principals, 1)
	assert.Equal(t, "Jane Doe", got.Profile.PrincipalIdentification.Principals[0].FullName)
	assert.Equal(t, []string{"opencorporates"}, got.Profile.ResearchMetadata.ProvidersUsed)
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_GetMissing(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)

	_, err := st.GetProfile(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_SaveNil(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)

	_, err := st.SaveProfile(context.Background(), nil)
	assert.Error(t, err)
}

func TestSQLite_ListFilters(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, s := range []struct {
		kind model.SubjectKind
		name string
	}{
		{model.SubjectOrganization, "Acme Corp"},
		{model.SubjectOrganization, "Globex"},
		{model.SubjectPerson, "Jane Doe"},
	} {
		_, err := st.SaveProfile(ctx, testProfile(s.kind, s.name))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := st.ListProfiles(ctx, ProfileFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Jane Doe", all[0].Name, "newest first")

	orgs, err := st.ListProfiles(ctx, ProfileFilter{Kind: model.SubjectOrganization})
	require.NoError(t, err)
	assert.Len(t, orgs, 2)

	byName, err := st.ListProfiles(ctx, ProfileFilter{Name: "acme"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Acme Corp", byName[0].Name)

	page, err := st.ListProfiles(ctx, ProfileFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Globex", page[0].Name)
}

func TestSQLite_ListEmpty(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)

	snaps, err := st.ListProfiles(context.Background(), ProfileFilter{Name: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, snaps)
	assert.Empty(t, snaps)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}

func TestOpen_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, err := Open(ctx, Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	saved, err := st.SaveProfile(ctx, testProfile(model.SubjectPerson, "Jane Doe"))
	require.NoError(t, err)
	_, err = st.GetProfile(ctx, saved.ID)
	assert.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{Driver: "mongo"})
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))
}
