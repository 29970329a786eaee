package sqlite

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evanschultz/kanboard/internal/domain"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func sampleBoard(t *testing.T) domain.Board {
	t.Helper()
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	b, err := domain.RestoreBoard([]domain.Column{
		{Name: "To Do", Cards: []domain.Card{
			{ID: "t1", Title: "Task title", Description: "Task details", Priority: domain.PriorityHigh, CreatedAt: now, UpdatedAt: now.Add(time.Hour)},
			{ID: "t2", Title: "Second", Priority: domain.PriorityLow, Done: true, CreatedAt: now, UpdatedAt: now},
		}},
		{Name: "Empty"},
		{Name: "Done", Cards: []domain.Card{
			{ID: "t3", Title: "Finished", Priority: domain.PriorityMedium, Done: true, CreatedAt: now, UpdatedAt: now},
		}},
	})
	require.NoError(t, err)
	return b
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "boards", "kanboard.db")
	store := New()
	want := sampleBoard(t)

	require.NoError(t, store.SaveBoard(ctx, path, want))
	got, err := store.LoadBoard(ctx, path)
	require.NoError(t, err)
	require.True(t, got.Equal(want), "loaded board differs: %#v", got.Columns())
}

func TestStoreSaveReplacesPreviousBoard(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kanboard.db")
	store := New()
	require.NoError(t, store.SaveBoard(ctx, path, sampleBoard(t)))

	smaller := domain.NewBoard("Only")
	require.NoError(t, store.SaveBoard(ctx, path, smaller))

	got, err := store.LoadBoard(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	require.Equal(t, 0, got.CardCount(0))
	col, err := got.Column(0)
	require.NoError(t, err)
	require.Equal(t, "Only", col.Name)
}

func TestStoreLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := New().LoadBoard(context.Background(), path)
	require.ErrorIs(t, err, fs.ErrNotExist)
	_, statErr := os.Stat(path)
	require.ErrorIs(t, statErr, fs.ErrNotExist, "load must not create the database")
}

func TestStoreLoadRejectsInvalidRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "broken.db")
	require.NoError(t, New().SaveBoard(ctx, path, sampleBoard(t)))

	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE cards SET priority = 'urgent' WHERE id = 't1'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = New().LoadBoard(ctx, path)
	require.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestStoreLoadEmptyDatabaseIsInvalid(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	require.NoError(t, migrate(ctx, db))
	require.NoError(t, db.Close())

	_, err = New().LoadBoard(ctx, path)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
}
