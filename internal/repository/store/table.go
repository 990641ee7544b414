// Package store is the persistence context shared by every repository.
//
// A Context wraps one database handle (and optionally an ambient transaction)
// for the lifetime of a single unit of work. Writes are registered in a change
// set and flushed by SaveChanges, which stamps audit timestamps through the
// domain.Auditable capability before executing any statement. Reads go through
// the generic helpers in this package (Select, Count, GetPagedWithCount, RawQuery).
package store

import (
	"fmt"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/domain"
)

// Audit and identity columns present on every table.
const (
	ColumnID        = "id"
	ColumnIsActive  = "is_active"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Dialect hides the SQL differences between drivers.
type Dialect interface {
	// Name is the driver name ("sqlite", "mysql", "postgres").
	Name() string
	// Rebind rewrites '?' placeholders into the driver's bind style.
	Rebind(query string) string
	// InsertReturningID reports whether inserts must use RETURNING id instead of LastInsertId.
	InsertReturningID() bool
	// SupportsStoredProcedures reports whether CALL is available.
	SupportsStoredProcedures() bool
	// TranslateError maps driver errors onto the db package sentinels.
	TranslateError(err error) error
}

// Mapping is the untyped view of a Table used by the change tracker.
type Mapping interface {
	TableName() string
	columns() []string
	values(e domain.Entity) ([]any, error)
}

// Table maps an entity type onto a relational table.
//
// Columns lists the entity-specific columns only; the identity and audit
// columns are handled by the store. Fields must return scan destinations and
// Values write values, both in Columns order.
type Table[T domain.Entity] struct {
	Name    string
	Columns []string
	New     func() T
	Fields  func(T) []any
	Values  func(T) []any
}

var _ Mapping = (*Table[domain.Entity])(nil)

func (t *Table[T]) TableName() string {
	return t.Name
}

func (t *Table[T]) columns() []string {
	return t.Columns
}

func (t *Table[T]) values(e domain.Entity) ([]any, error) {
	typed, ok := e.(T)
	if !ok {
		return nil, fmt.Errorf("store: entity %T does not belong to table %s", e, t.Name)
	}
	return t.Values(typed), nil
}

// SelectColumns returns the full column list in scan order.
func (t *Table[T]) SelectColumns() string {
	cols := append([]string{ColumnID, ColumnIsActive, ColumnCreatedAt, ColumnUpdatedAt}, t.Columns...)
	return strings.Join(cols, ", ")
}

// Scan reads one row produced by SelectColumns.
func (t *Table[T]) Scan(row Scanner) (T, error) {
	var (
		id        int64
		isActive  bool
		createdAt sqlTime
		updatedAt nullSQLTime
	)

	e := t.New()
	dest := append([]any{&id, &isActive, &createdAt, &updatedAt}, t.Fields(e)...)
	if err := row.Scan(dest...); err != nil {
		var zero T
		return zero, err
	}

	e.SetID(id)
	e.SetIsActive(isActive)
	e.SetCreatedAt(createdAt.Time)
	if updatedAt.Valid {
		e.SetUpdatedAt(updatedAt.Time)
	}
	return e, nil
}
