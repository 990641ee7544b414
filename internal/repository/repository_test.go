package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	if _, err := database.Exec(SQLiteSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return database
}

func setupContext(t *testing.T) (*store.Context, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewSQLiteContext(setupTestDB(t), clock.Now), clock
}

func strPtr(s string) *string { return &s }

func TestBase_GetByIDMissing(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewClienteRepository(uow)

	for _, id := range []int64{-1, 0, 42} {
		c, found, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, c)
	}
}

func TestBase_UpdateMissingRow(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewClienteRepository(uow)

	ghost := domain.NewCliente("Ana", "Ruiz", "ana@example.com", nil)
	ghost.ID = 99
	_, err := repo.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestBase_DeleteReportsExistence(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewClienteRepository(uow)
	ctx := context.Background()

	c, err := repo.Create(ctx, domain.NewCliente("Ana", "Ruiz", "ana@example.com", nil))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBase_GetPaged(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewProductoRepository(uow)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.Create(ctx, domain.NewProducto(n, nil, decimal.NewFromInt(1), 1))
		require.NoError(t, err)
	}

	items, total, err := repo.GetPaged(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].Nombre)
	assert.Equal(t, "d", items[1].Nombre)

	first, _, err := repo.GetPaged(ctx, 0, 0)
	require.NoError(t, err)
	same, _, err := repo.GetPaged(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, len(same), len(first))
	assert.Len(t, first, 5)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "50!%!_off!!", escapeLike("50%_off!"))
}
