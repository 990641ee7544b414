package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/ports"
)

// ErrNoTransaction is returned by Commit or Rollback without a matching Begin.
var ErrNoTransaction = errors.New("store: no transaction in progress")

// ErrTransactionInProgress is returned by Begin when a transaction is already open.
var ErrTransactionInProgress = errors.New("store: transaction already in progress")

// Statement operation labels reported to the Observer.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpSelect = "select"
	OpCount  = "count"
	OpRaw    = "raw"
	OpExec   = "exec"
)

// Observer receives one callback per executed statement.
type Observer interface {
	ObserveStatement(op string, duration time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveStatement(string, time.Duration, error) {}

// EntryState is the pending action of a tracked entity.
type EntryState int

const (
	Added EntryState = iota
	Modified
	Deleted
)

func (s EntryState) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

type entry struct {
	mapping Mapping
	entity  domain.Entity
	id      int64
	state   EntryState
}

// Context is a unit of work over one database handle. Not safe for concurrent use:
// create one per request.
type Context struct {
	db       *sql.DB
	tx       *sql.Tx
	dialect  Dialect
	timeout  time.Duration
	now      func() time.Time
	observer Observer
	entries  []entry
}

// Option configures a Context.
type Option func(*Context)

// WithCommandTimeout bounds every statement that has no explicit timeout.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Context) { c.timeout = d }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Context) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver registers a statement observer.
func WithObserver(o Observer) Option {
	return func(c *Context) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates a persistence context.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Context {
	c := &Context{
		db:       db,
		dialect:  dialect,
		now:      time.Now,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the SQL dialect of the underlying driver.
func (c *Context) Dialect() Dialect {
	return c.dialect
}

// Now returns the current UTC time from the context clock, truncated to the
// microsecond precision every supported driver can store.
func (c *Context) Now() time.Time {
	return c.now().UTC().Truncate(time.Microsecond)
}

// conn returns the ambient transaction if any, otherwise the pool.
func (c *Context) conn() ports.DBTX {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// InTransaction reports whether an ambient transaction is open.
func (c *Context) InTransaction() bool {
	return c.tx != nil
}

// Begin opens the ambient transaction used by every later statement.
func (c *Context) Begin(ctx context.Context) error {
	if c.tx != nil {
		return ErrTransactionInProgress
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", c.dialect.TranslateError(err))
	}
	c.tx = tx
	return nil
}

// Commit commits the ambient transaction.
func (c *Context) Commit() error {
	if c.tx == nil {
		return ErrNoTransaction
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("store: commit: %w", c.dialect.TranslateError(err))
	}
	return nil
}

// Rollback aborts the ambient transaction.
func (c *Context) Rollback() error {
	if c.tx == nil {
		return ErrNoTransaction
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("store: rollback: %w", err)
	}
	return nil
}

// Add registers e for insertion.
func (c *Context) Add(m Mapping, e domain.Entity) {
	c.entries = append(c.entries, entry{mapping: m, entity: e, state: Added})
}

// Update registers e for a full replacement of its row.
func (c *Context) Update(m Mapping, e domain.Entity) {
	c.entries = append(c.entries, entry{mapping: m, entity: e, id: e.GetID(), state: Modified})
}

// Remove registers the row identified by id for deletion.
func (c *Context) Remove(m Mapping, id int64) {
	c.entries = append(c.entries, entry{mapping: m, id: id, state: Deleted})
}

// Pending returns the number of registered changes.
func (c *Context) Pending() int {
	return len(c.entries)
}

// SaveChanges stamps audit timestamps and flushes every pending change in a
// single transaction, returning the number of affected rows. Added entities
// get CreatedAt and UpdatedAt set to the same instant; Modified entities only
// get UpdatedAt and their created_at column is never written. The change set
// is cleared whatever the outcome. On failure the tracked entities get back the
// id and timestamps they had before the call; rolling back an ambient
// transaction after a successful SaveChanges does not undo them.
func (c *Context) SaveChanges(ctx context.Context) (affected int, err error) {
	entries := c.entries
	c.entries = nil
	if len(entries) == 0 {
		return 0, nil
	}

	before := snapshot(entries)
	defer func() {
		if err != nil {
			restore(entries, before)
		}
	}()

	now := c.Now()
	for _, e := range entries {
		stamp(e, now)
	}

	if c.tx != nil {
		return c.flush(ctx, c.tx, entries)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", c.dialect.TranslateError(err))
	}
	affected, err = c.flush(ctx, tx, entries)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", c.dialect.TranslateError(err))
	}
	return affected, nil
}

type auditState struct {
	id        int64
	createdAt time.Time
	updatedAt *time.Time
}

func snapshot(entries []entry) []auditState {
	out := make([]auditState, len(entries))
	for i, e := range entries {
		if e.entity == nil {
			continue
		}
		out[i] = auditState{
			id:        e.entity.GetID(),
			createdAt: e.entity.GetCreatedAt(),
			updatedAt: e.entity.GetUpdatedAt(),
		}
	}
	return out
}

func restore(entries []entry, states []auditState) {
	for i, e := range entries {
		if e.entity == nil {
			continue
		}
		s := states[i]
		e.entity.SetID(s.id)
		e.entity.RestoreAudit(s.createdAt, s.updatedAt)
	}
}

func stamp(e entry, now time.Time) {
	if e.entity == nil {
		return
	}
	var audit domain.Auditable = e.entity
	switch e.state {
	case Added:
		audit.SetCreatedAt(now)
		audit.SetUpdatedAt(now)
	case Modified:
		audit.SetUpdatedAt(now)
	}
}

func (c *Context) flush(ctx context.Context, conn ports.DBTX, entries []entry) (int, error) {
	total := 0
	for _, e := range entries {
		var (
			n   int64
			err error
		)
		switch e.state {
		case Added:
			n, err = c.insert(ctx, conn, e)
		case Modified:
			n, err = c.update(ctx, conn, e)
		case Deleted:
			n, err = c.delete(ctx, conn, e)
		}
		if err != nil {
			return 0, err
		}
		total += int(n)
	}
	return total, nil
}

func (c *Context) insert(ctx context.Context, conn ports.DBTX, e entry) (int64, error) {
	values, err := e.mapping.values(e.entity)
	if err != nil {
		return 0, err
	}
	cols := append([]string{ColumnIsActive, ColumnCreatedAt, ColumnUpdatedAt}, e.mapping.columns()...)
	createdAt := e.entity.GetCreatedAt()
	args := append([]any{e.entity.GetIsActive(), timeValue(&createdAt), timeValue(e.entity.GetUpdatedAt())}, values...)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		e.mapping.TableName(), strings.Join(cols, ", "), placeholders(len(cols)))

	ctx, cancel := c.withTimeout(ctx, 0)
	defer cancel()
	start := time.Now()

	if c.dialect.InsertReturningID() {
		var id int64
		err = conn.QueryRowContext(ctx, c.dialect.Rebind(query+" RETURNING "+ColumnID), args...).Scan(&id)
		err = c.observe(OpInsert, start, err)
		if err != nil {
			return 0, err
		}
		e.entity.SetID(id)
		return 1, nil
	}

	res, err := conn.ExecContext(ctx, c.dialect.Rebind(query), args...)
	if err = c.observe(OpInsert, start, err); err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: last insert id: %w", err)
	}
	e.entity.SetID(id)
	return res.RowsAffected()
}

func (c *Context) update(ctx context.Context, conn ports.DBTX, e entry) (int64, error) {
	values, err := e.mapping.values(e.entity)
	if err != nil {
		return 0, err
	}
	cols := append([]string{ColumnIsActive, ColumnUpdatedAt}, e.mapping.columns()...)
	args := append([]any{e.entity.GetIsActive(), timeValue(e.entity.GetUpdatedAt())}, values...)
	args = append(args, e.id)

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		e.mapping.TableName(), strings.Join(sets, ", "), ColumnID)

	return c.exec(ctx, conn, OpUpdate, query, args)
}

func (c *Context) delete(ctx context.Context, conn ports.DBTX, e entry) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", e.mapping.TableName(), ColumnID)
	return c.exec(ctx, conn, OpDelete, query, []any{e.id})
}

func (c *Context) exec(ctx context.Context, conn ports.DBTX, op, query string, args []any) (int64, error) {
	ctx, cancel := c.withTimeout(ctx, 0)
	defer cancel()
	start := time.Now()

	res, err := conn.ExecContext(ctx, c.dialect.Rebind(query), args...)
	if err = c.observe(op, start, err); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Exec runs a raw write statement outside the change tracker, inside the
// ambient transaction when one is open.
func (c *Context) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return c.exec(ctx, c.conn(), OpExec, query, args)
}

// withTimeout applies override, or the context default when override is zero.
func (c *Context) withTimeout(ctx context.Context, override time.Duration) (context.Context, context.CancelFunc) {
	d := override
	if d <= 0 {
		d = c.timeout
	}
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// observe reports the statement and returns the translated error.
func (c *Context) observe(op string, start time.Time, err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		c.observer.ObserveStatement(op, time.Since(start), nil)
		return err
	}
	err = c.dialect.TranslateError(err)
	c.observer.ObserveStatement(op, time.Since(start), err)
	return err
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
