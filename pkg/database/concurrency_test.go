package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestNew_FileDatabase(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	require.NoError(t, CheckFTS5Support(db))
}

func TestNew_MemoryDatabaseIsShared(t *testing.T) {
	t.Parallel()

	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE shared_test (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n int
			assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM shared_test").Scan(&n))
		}()
	}
	wg.Wait()
}

func TestRunInTx_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE concurrency_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL
	)`)
	require.NoError(t, err)

	const workers = 10
	const writes = 20

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < writes; i++ {
				err := RunInTx(context.Background(), db, 5, func(ctx context.Context, tx bun.Tx) error {
					_, err := tx.ExecContext(ctx, "INSERT INTO concurrency_test (value) VALUES (?)",
						fmt.Sprintf("worker-%d-write-%d", worker, i))
					return err
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM concurrency_test").Scan(&count))
	assert.Equal(t, workers*writes, count)
}
