package repository

import (
	"context"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/ports"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

const (
	orderByID     = "id ASC"
	orderByNombre = "nombre ASC, id ASC"
	orderByRecent = "created_at DESC, id ASC"
)

// Base implements the generic CRUD operations over one table / Implémente le CRUD générique sur une table
type Base[T domain.Entity] struct {
	uow   *store.Context
	table *store.Table[T]
}

var _ ports.Repository[*domain.Cliente] = (*Base[*domain.Cliente])(nil)

// NewBase creates a generic repository / Crée un repository générique
func NewBase[T domain.Entity](uow *store.Context, table *store.Table[T]) *Base[T] {
	return &Base[T]{uow: uow, table: table}
}

// Context returns the persistence context shared by the repository / Retourne le contexte de persistance
func (r *Base[T]) Context() *store.Context {
	return r.uow
}

func (r *Base[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, store.Query{OrderBy: orderByID})
}

func (r *Base[T]) GetByID(ctx context.Context, id int64) (T, bool, error) {
	if id <= 0 {
		var zero T
		return zero, false, nil
	}
	return store.Find(ctx, r.uow, r.table, id)
}

func (r *Base[T]) Create(ctx context.Context, entity T) (T, error) {
	r.uow.Add(r.table, entity)
	if _, err := r.uow.SaveChanges(ctx); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

// Update returns db.ErrNoRecord when no row carries the entity id / Retourne db.ErrNoRecord si aucune ligne ne correspond
func (r *Base[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	r.uow.Update(r.table, entity)
	n, err := r.uow.SaveChanges(ctx)
	if err != nil {
		return zero, err
	}
	if n == 0 {
		return zero, db.ErrNoRecord
	}
	return entity, nil
}

func (r *Base[T]) Delete(ctx context.Context, id int64) (bool, error) {
	r.uow.Remove(r.table, id)
	n, err := r.uow.SaveChanges(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Base[T]) GetPaged(ctx context.Context, page, pageSize int) ([]T, int, error) {
	return store.GetPagedWithCount(ctx, r.uow, r.table, store.Query{}, page, pageSize)
}

func (r *Base[T]) find(ctx context.Context, q store.Query) ([]T, error) {
	return store.Select(ctx, r.uow, r.table, q)
}

func (r *Base[T]) first(ctx context.Context, q store.Query) (T, bool, error) {
	return store.SelectOne(ctx, r.uow, r.table, q)
}

func (r *Base[T]) exists(ctx context.Context, q store.Query) (bool, error) {
	return store.Exists(ctx, r.uow, r.table, q)
}

// equalsIgnoreCase matches col against a value regardless of case / Compare col à une valeur sans tenir compte de la casse
func equalsIgnoreCase(col string) string {
	return "LOWER(" + col + ") = LOWER(?)"
}

// excluding narrows q to rows other than excludeID, when set / Exclut la ligne excludeID si renseignée
func excluding(q store.Query, excludeID int64) store.Query {
	if excludeID > 0 {
		return q.And("id <> ?", excludeID)
	}
	return q
}

// containsAny builds a case-insensitive LIKE over several columns / Construit un LIKE insensible à la casse sur plusieurs colonnes
func containsAny(term string, cols ...string) store.Query {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return store.Filter(strings.Join(parts, " OR "), args...)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
