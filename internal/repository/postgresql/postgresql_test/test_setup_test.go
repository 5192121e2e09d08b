package postgresql_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../../../migrations"

// TestDatabaseSetup holds the connection used by repository tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL, applies the migrations and
// skips the test when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PostgresOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "connect to test database")
	t.Cleanup(db.Close)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.migrate(context.Background()))
	return setup
}

func (s *TestDatabaseSetup) migrate(ctx context.Context) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		stmt, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := s.DB.Exec(ctx, string(stmt)); err != nil {
			return err
		}
	}
	return nil
}

// TruncateAllTables empties the tables touched by the tests
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, "TRUNCATE TABLE web_sessions")
	return err
}
