package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/sqlite"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type widget struct {
	domain.BaseEntity
	Name string
}

var widgets = &store.Table[*widget]{
	Name:    "widgets",
	Columns: []string{"name"},
	New:     func() *widget { return &widget{} },
	Fields:  func(w *widget) []any { return []any{&w.Name} },
	Values:  func(w *widget) []any { return []any{w.Name} },
}

type recordingObserver struct {
	ops    []string
	errors int
}

func (o *recordingObserver) ObserveStatement(op string, _ time.Duration, err error) {
	o.ops = append(o.ops, op)
	if err != nil {
		o.errors++
	}
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	schema := `
	CREATE TABLE widgets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP
	);`
	_, err = database.Exec(schema)
	require.NoError(t, err)
	return database
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newContext(t *testing.T, clock *fakeClock, opts ...store.Option) *store.Context {
	t.Helper()
	opts = append([]store.Option{store.WithClock(clock.Now)}, opts...)
	return store.New(setupTestDB(t), sqlite.Dialect{}, opts...)
}

func seed(t *testing.T, c *store.Context, names ...string) []*widget {
	t.Helper()
	out := make([]*widget, 0, len(names))
	for _, name := range names {
		w := &widget{BaseEntity: domain.NewBaseEntity(), Name: name}
		c.Add(widgets, w)
		out = append(out, w)
	}
	_, err := c.SaveChanges(context.Background())
	require.NoError(t, err)
	return out
}

func TestSaveChanges_StampsAddedEntities(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))}
	c := newContext(t, clock)

	w := &widget{BaseEntity: domain.NewBaseEntity(), Name: "alpha"}
	c.Add(widgets, w)
	assert.Equal(t, 1, c.Pending())

	n, err := c.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, c.Pending())

	assert.NotZero(t, w.ID)
	assert.Equal(t, clock.now.UTC(), w.CreatedAt)
	assert.Equal(t, time.UTC, w.CreatedAt.Location())
	require.NotNil(t, w.UpdatedAt)
	assert.Equal(t, w.CreatedAt, *w.UpdatedAt)

	got, found, err := store.Find(context.Background(), c, widgets, w.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alpha", got.Name)
	assert.True(t, got.CreatedAt.Equal(w.CreatedAt))
	assert.True(t, got.IsActive)
}

func TestSaveChanges_ModifiedKeepsCreatedAt(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := newContext(t, clock)
	w := seed(t, c, "alpha")[0]
	created := w.CreatedAt

	clock.now = clock.now.Add(2 * time.Hour)
	w.Name = "beta"
	// a caller tampering with CreatedAt must not reach the row
	w.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Update(widgets, w)

	n, err := c.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NotNil(t, w.UpdatedAt)
	assert.Equal(t, clock.now, *w.UpdatedAt)

	got, found, err := store.Find(context.Background(), c, widgets, w.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "beta", got.Name)
	assert.True(t, got.CreatedAt.Equal(created))
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(clock.now))
}

func TestSaveChanges_RemoveAndMissingRows(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newContext(t, clock)
	w := seed(t, c, "alpha")[0]

	c.Remove(widgets, w.ID)
	n, err := c.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c.Remove(widgets, w.ID)
	n, err = c.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, found, err := store.Find(context.Background(), c, widgets, w.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveChanges_EmptyChangeSet(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	n, err := c.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveChanges_AtomicOnFailure(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	seed(t, c, "alpha")

	c.Add(widgets, &widget{BaseEntity: domain.NewBaseEntity(), Name: "beta"})
	c.Add(widgets, &widget{BaseEntity: domain.NewBaseEntity(), Name: "alpha"})
	_, err := c.SaveChanges(context.Background())
	assert.ErrorIs(t, err, db.ErrDuplicate)
	assert.Zero(t, c.Pending())

	total, err := store.Count(context.Background(), c, widgets, store.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "beta must be rolled back with the duplicate")
}

func TestSaveChanges_FailureRestoresEntities(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := newContext(t, clock)
	alpha := seed(t, c, "alpha")[0]
	created := alpha.CreatedAt
	updated := *alpha.UpdatedAt

	clock.now = clock.now.Add(time.Hour)
	beta := &widget{BaseEntity: domain.NewBaseEntity(), Name: "beta"}
	dup := &widget{BaseEntity: domain.NewBaseEntity(), Name: "alpha"}
	alpha.Name = "gamma"
	c.Update(widgets, alpha)
	c.Add(widgets, beta)
	c.Add(widgets, dup)

	_, err := c.SaveChanges(context.Background())
	require.ErrorIs(t, err, db.ErrDuplicate)

	assert.Zero(t, beta.ID, "id of a rolled back insert must not stick")
	assert.True(t, beta.CreatedAt.IsZero())
	assert.Nil(t, beta.UpdatedAt)
	assert.Nil(t, dup.UpdatedAt)
	assert.Equal(t, created, alpha.CreatedAt)
	require.NotNil(t, alpha.UpdatedAt)
	assert.Equal(t, updated, *alpha.UpdatedAt)
}

func TestAmbientTransaction(t *testing.T) {
	c := newContext(t, &fakeClock{now: time.Now()})
	ctx := context.Background()

	assert.ErrorIs(t, c.Commit(), store.ErrNoTransaction)
	require.NoError(t, c.Begin(ctx))
	assert.True(t, c.InTransaction())
	assert.ErrorIs(t, c.Begin(ctx), store.ErrTransactionInProgress)

	c.Add(widgets, &widget{BaseEntity: domain.NewBaseEntity(), Name: "alpha"})
	_, err := c.SaveChanges(ctx)
	require.NoError(t, err)

	// visible inside the transaction
	total, err := store.Count(ctx, c, widgets, store.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.NoError(t, c.Rollback())
	assert.False(t, c.InTransaction())

	total, err = store.Count(ctx, c, widgets, store.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	require.NoError(t, c.Begin(ctx))
	seed(t, c, "beta")
	require.NoError(t, c.Commit())
	total, err = store.Count(ctx, c, widgets, store.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestObserver_ReceivesStatements(t *testing.T) {
	obs := &recordingObserver{}
	c := newContext(t, &fakeClock{now: time.Now()}, store.WithObserver(obs))
	seed(t, c, "alpha")

	_, err := store.Select(context.Background(), c, widgets, store.Query{})
	require.NoError(t, err)

	c.Add(widgets, &widget{BaseEntity: domain.NewBaseEntity(), Name: "alpha"})
	_, err = c.SaveChanges(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{store.OpInsert, store.OpSelect, store.OpInsert}, obs.ops)
	assert.Equal(t, 1, obs.errors)
}

func TestExec_StampsNothingByItself(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	c := newContext(t, clock)
	w := seed(t, c, "alpha")[0]

	n, err := c.Exec(context.Background(), "UPDATE widgets SET name = ?, updated_at = ? WHERE id = ?", "gamma", c.Now(), w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, _, err := store.Find(context.Background(), c, widgets, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "gamma", got.Name)
}
