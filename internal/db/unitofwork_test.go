package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/goalplan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return db.NewSQLiteUnitOfWork(database)
}

const insertGoal = `INSERT INTO goals (id, title, target_date, days_per_week, session_minutes, submission_key, created_at)
	VALUES (?, ?, '2026-04-01', 3, 60, ?, '2026-03-04T10:00:00Z')`

// readTitle reads a goal title through a read-only transaction.
func readTitle(uow *db.SQLiteUnitOfWork, id string) (string, bool) {
	var title string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT title FROM goals WHERE id = ?`, id).Scan(&title); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return title, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertGoal, "g1", "Learn Go", "key-1")
		return err
	})
	require.NoError(t, err)

	title, found := readTitle(uow, "g1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "Learn Go", title)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertGoal, "g2", "Learn Rust", "key-2")
		if err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readTitle(uow, "g2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertGoal, "g3", "Learn Zig", "key-3")
			panic("boom")
		})
	})

	_, found := readTitle(uow, "g3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestInTx_ReturnsValue(t *testing.T) {
	uow := openTestDB(t)

	n, err := db.InTx(context.Background(), uow, func(ctx context.Context, tx db.DBTX) (int, error) {
		if _, err := tx.ExecContext(ctx, insertGoal, "g4", "Learn C", "key-4"); err != nil {
			return 0, err
		}
		var count int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`).Scan(&count)
		return count, err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInTx_ErrorRollsBack(t *testing.T) {
	uow := openTestDB(t)

	_, err := db.InTx(context.Background(), uow, func(ctx context.Context, tx db.DBTX) (string, error) {
		if _, err := tx.ExecContext(ctx, insertGoal, "g5", "Learn Go", "key-5"); err != nil {
			return "", err
		}
		// Duplicate submission key violates the UNIQUE constraint.
		_, err := tx.ExecContext(ctx, insertGoal, "g6", "Learn Go", "key-5")
		return "", err
	})
	require.Error(t, err)

	_, found := readTitle(uow, "g5")
	assert.False(t, found)
}
