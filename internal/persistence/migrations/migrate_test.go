package migrations

import (
	"errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMigrate struct {
	upErr          error
	downErr        error
	versionVal     uint
	versionErr     error
	dirty          bool
	forceErr       error
	closeSourceErr error
	closeDBErr     error
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Steps(int) error              { return nil }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Force(int) error              { return m.forceErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDBErr }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops error, got %v", err)
	assert.Equal(t, code, oopsErr.Code())
}

func TestDriverURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/app", driverURL("postgres://u:p@db:5432/app"))
	assert.Equal(t, "pgx5://db/app", driverURL("postgresql://db/app"))
	assert.Equal(t, "pgx5://db/app", driverURL("pgx5://db/app"))
}

func TestNewMigratorInvalidURL(t *testing.T) {
	_, err := NewMigrator("badscheme://localhost:5432/testdb")
	require.Error(t, err)
	assertCode(t, err, "migration_init_failed")
}

func TestUpIgnoresNoChange(t *testing.T) {
	m := &Migrator{m: &mockMigrate{upErr: migrate.ErrNoChange}}
	require.NoError(t, m.Up())

	m = &Migrator{m: &mockMigrate{upErr: errors.New("boom")}}
	assertCode(t, m.Up(), "migration_up_failed")
}

func TestDownIgnoresNoChange(t *testing.T) {
	m := &Migrator{m: &mockMigrate{downErr: migrate.ErrNoChange}}
	require.NoError(t, m.Down())
}

func TestVersionTreatsNilVersionAsZero(t *testing.T) {
	m := &Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}
	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)
}

func TestForceRejectsNegativeVersion(t *testing.T) {
	m := &Migrator{m: &mockMigrate{}}
	assertCode(t, m.Force(-1), "invalid_version")
	require.NoError(t, m.Force(1))
}

func TestCloseJoinsErrors(t *testing.T) {
	m := &Migrator{m: &mockMigrate{closeSourceErr: errors.New("src"), closeDBErr: errors.New("db")}}
	err := m.Close()
	assertCode(t, err, "migration_close_failed")
	assert.Contains(t, err.Error(), "src")
	assert.Contains(t, err.Error(), "db")
}

func TestPending(t *testing.T) {
	m := &Migrator{m: &mockMigrate{versionVal: 1}}
	pending, err := m.Pending()
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, pending)
}

func TestEmbeddedFilesArePaired(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}_[a-z0-9_]+\.(up|down)\.sql$`)
	entries, err := fs.ReadDir(migrationsFS, "sql")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		require.Regexp(t, pattern, e.Name())
		base := e.Name()[:6]
		if regexp.MustCompile(`\.up\.sql$`).MatchString(e.Name()) {
			ups[base] = true
		} else {
			downs[base] = true
		}
	}
	assert.Equal(t, ups, downs)

	versions, err := Versions()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, versions)
}
