package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaged_Normalizes(t *testing.T) {
	base := store.Filter("name LIKE ?", "a%")

	tests := []struct {
		name       string
		page, size int
		wantLimit  int
		wantOffset int
	}{
		{"zero values use defaults", 0, 0, 10, 0},
		{"negative page clamps to first", -3, 5, 5, 0},
		{"negative size uses default", 2, -1, 10, 10},
		{"third page", 3, 20, 20, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := store.GetPaged(base, tt.page, tt.size)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset)
			assert.Equal(t, base.Where, q.Where)
			assert.Equal(t, "id ASC", q.OrderBy)
		})
	}

	assert.Equal(t, store.GetPaged(base, 1, 10), store.GetPaged(base, 0, 0))
	assert.Zero(t, base.Limit, "GetPaged must not mutate its input")
}

func TestGetPaged_KeepsExplicitOrder(t *testing.T) {
	q := store.GetPaged(store.Query{}.Order("name DESC"), 1, 5)
	assert.Equal(t, "name DESC", q.OrderBy)
}

func TestQuery_And(t *testing.T) {
	q := store.Filter("a = ?", 1).And("b = ?", 2)
	assert.Equal(t, "(a = ?) AND (b = ?)", q.Where)
	assert.Equal(t, []any{1, 2}, q.Args)

	q = store.Query{}.And("c = ?", 3)
	assert.Equal(t, "c = ?", q.Where)
}

func TestGetPagedWithCount(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	names := make([]string, 0, 25)
	for i := 1; i <= 25; i++ {
		names = append(names, fmt.Sprintf("w%02d", i))
	}
	seed(t, c, names...)
	ctx := context.Background()

	items, total, err := store.GetPagedWithCount(ctx, c, widgets, store.Query{}, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, items, 5)
	assert.Equal(t, "w21", items[0].Name)
	assert.Equal(t, "w25", items[4].Name)

	items, total, err = store.GetPagedWithCount(ctx, c, widgets, store.Query{}, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, items)

	filtered := store.Filter("name LIKE ?", "w1%")
	items, total, err = store.GetPagedWithCount(ctx, c, widgets, filtered, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Len(t, items, 10)
}

func TestExists(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	seed(t, c, "alpha")
	ctx := context.Background()

	ok, err := store.Exists(ctx, c, widgets, store.Filter("name = ?", "alpha"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, c, widgets, store.Filter("name = ?", "zeta"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRawQuery(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	seed(t, c, "alpha", "beta", "gamma")
	ctx := context.Background()

	scanName := func(row store.Scanner) (string, error) {
		var s string
		err := row.Scan(&s)
		return s, err
	}

	names, err := store.RawQuery(ctx, c, scanName, "SELECT name FROM widgets WHERE name <> ? ORDER BY name DESC", store.QueryOptions{}, "beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma", "alpha"}, names)

	first, found, err := store.QueryFirstOrDefault(ctx, c, scanName, "SELECT name FROM widgets ORDER BY id", store.QueryOptions{Timeout: time.Second})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alpha", first)

	none, found, err := store.QueryFirstOrDefault(ctx, c, scanName, "SELECT name FROM widgets WHERE id < 0", store.QueryOptions{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, none)

	entities, err := store.RawQuery(ctx, c, store.ScanEntity(widgets), "SELECT "+widgets.SelectColumns()+" FROM widgets WHERE name = ?", store.QueryOptions{}, "gamma")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "gamma", entities[0].Name)
}

func TestRawQuery_StoredProcedureUnsupportedOnSQLite(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	scan := func(row store.Scanner) (int, error) {
		var n int
		err := row.Scan(&n)
		return n, err
	}

	_, err := store.RawQuery(context.Background(), c, scan, "count_widgets", store.QueryOptions{CommandType: store.StoredProcedure}, 1)
	assert.ErrorIs(t, err, db.ErrUnsupported)

	_, _, err = store.QueryFirstOrDefault(context.Background(), c, scan, "count_widgets", store.QueryOptions{CommandType: store.StoredProcedure})
	assert.ErrorIs(t, err, db.ErrUnsupported)
}

func TestCommandTimeout_Applied(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()}, store.WithCommandTimeout(time.Second))
	seed(t, c, "alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Select(ctx, c, widgets, store.Query{})
	assert.Error(t, err)
}
