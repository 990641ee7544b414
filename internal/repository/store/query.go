package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
)

// Paging defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Query is a composable filter over a single table. Where and OrderBy are raw
// SQL fragments using '?' placeholders; Limit and Offset are ignored when zero.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// Filter starts a query with a WHERE clause.
func Filter(where string, args ...any) Query {
	return Query{Where: where, Args: args}
}

// And narrows the query with another predicate.
func (q Query) And(where string, args ...any) Query {
	if q.Where == "" {
		q.Where = where
	} else {
		q.Where = "(" + q.Where + ") AND (" + where + ")"
	}
	q.Args = append(append([]any{}, q.Args...), args...)
	return q
}

// Order sets the ORDER BY clause.
func (q Query) Order(orderBy string) Query {
	q.OrderBy = orderBy
	return q
}

// NormalizePage clamps page to at least 1 and replaces a non-positive size with the default.
func NormalizePage(page, pageSize int) (int, int) {
	if page < DefaultPage {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// GetPaged restricts q to one page without executing anything.
// An empty ordering falls back to the id so pages are stable.
func GetPaged(q Query, page, pageSize int) Query {
	page, pageSize = NormalizePage(page, pageSize)
	if q.OrderBy == "" {
		q.OrderBy = ColumnID + " ASC"
	}
	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize
	return q
}

func (q Query) whereClause() string {
	if q.Where == "" {
		return ""
	}
	return " WHERE " + q.Where
}

func (q Query) tail() (string, []any) {
	var b strings.Builder
	args := append([]any{}, q.Args...)
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
		if q.Offset > 0 {
			b.WriteString(" OFFSET ?")
			args = append(args, q.Offset)
		}
	}
	return b.String(), args
}

// Select returns every row of t matching q.
func Select[T domain.Entity](ctx context.Context, c *Context, t *Table[T], q Query) ([]T, error) {
	tail, args := q.tail()
	query := "SELECT " + t.SelectColumns() + " FROM " + t.Name + q.whereClause() + tail

	ctx, cancel := c.withTimeout(ctx, 0)
	defer cancel()
	start := time.Now()

	rows, err := c.conn().QueryContext(ctx, c.dialect.Rebind(query), args...)
	if err = c.observe(OpSelect, start, err); err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := t.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", t.Name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, c.dialect.TranslateError(err)
	}
	return items, nil
}

// SelectOne returns the first row of t matching q, with found=false when none does.
func SelectOne[T domain.Entity](ctx context.Context, c *Context, t *Table[T], q Query) (T, bool, error) {
	var zero T
	if q.OrderBy == "" {
		q.OrderBy = ColumnID + " ASC"
	}
	q.Limit, q.Offset = 1, 0
	items, err := Select(ctx, c, t, q)
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		return zero, false, nil
	}
	return items[0], true, nil
}

// Find loads a row by its identifier.
func Find[T domain.Entity](ctx context.Context, c *Context, t *Table[T], id int64) (T, bool, error) {
	return SelectOne(ctx, c, t, Filter(ColumnID+" = ?", id))
}

// Count returns how many rows of t match q. Ordering and window are ignored.
func Count[T domain.Entity](ctx context.Context, c *Context, t *Table[T], q Query) (int, error) {
	query := "SELECT COUNT(*) FROM " + t.Name + q.whereClause()

	ctx, cancel := c.withTimeout(ctx, 0)
	defer cancel()
	start := time.Now()

	var n int
	err := c.conn().QueryRowContext(ctx, c.dialect.Rebind(query), q.Args...).Scan(&n)
	if err = c.observe(OpCount, start, err); err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether at least one row of t matches q.
func Exists[T domain.Entity](ctx context.Context, c *Context, t *Table[T], q Query) (bool, error) {
	query := "SELECT 1 FROM " + t.Name + q.whereClause() + " LIMIT 1"

	ctx, cancel := c.withTimeout(ctx, 0)
	defer cancel()
	start := time.Now()

	var one int
	err := c.conn().QueryRowContext(ctx, c.dialect.Rebind(query), q.Args...).Scan(&one)
	err = c.observe(OpSelect, start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetPagedWithCount counts every row matching q, then fetches one page of it.
// The total ignores the window; the page is empty when it lies past the end.
func GetPagedWithCount[T domain.Entity](ctx context.Context, c *Context, t *Table[T], q Query, page, pageSize int) ([]T, int, error) {
	total, err := Count(ctx, c, t, q)
	if err != nil {
		return nil, 0, err
	}
	paged := GetPaged(q, page, pageSize)
	if total <= paged.Offset {
		return make([]T, 0), total, nil
	}
	items, err := Select(ctx, c, t, paged)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CommandType tells how the text of a raw query is interpreted.
type CommandType int

const (
	// Text is a plain SQL statement.
	Text CommandType = iota
	// StoredProcedure is a procedure name; arguments are bound positionally.
	StoredProcedure
)

// QueryOptions tunes a raw query.
type QueryOptions struct {
	Timeout     time.Duration
	CommandType CommandType
}

// ScanFunc builds one result from the current row.
type ScanFunc[R any] func(row Scanner) (R, error)

func (c *Context) commandText(text string, opts QueryOptions, argc int) (string, error) {
	if opts.CommandType != StoredProcedure {
		return text, nil
	}
	if !c.dialect.SupportsStoredProcedures() {
		return "", fmt.Errorf("store: stored procedures on %s: %w", c.dialect.Name(), db.ErrUnsupported)
	}
	return fmt.Sprintf("CALL %s(%s)", text, placeholders(argc)), nil
}

// RawQuery runs arbitrary SQL inside the ambient transaction, if any, and maps
// every row with scan.
func RawQuery[R any](ctx context.Context, c *Context, scan ScanFunc[R], text string, opts QueryOptions, args ...any) ([]R, error) {
	query, err := c.commandText(text, opts, len(args))
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx, opts.Timeout)
	defer cancel()
	start := time.Now()

	rows, err := c.conn().QueryContext(ctx, c.dialect.Rebind(query), args...)
	if err = c.observe(OpRaw, start, err); err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]R, 0)
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, c.dialect.TranslateError(err)
	}
	return results, nil
}

// QueryFirstOrDefault returns the first row produced by the query, or the zero
// value with found=false when there is none.
func QueryFirstOrDefault[R any](ctx context.Context, c *Context, scan ScanFunc[R], text string, opts QueryOptions, args ...any) (R, bool, error) {
	var zero R
	query, err := c.commandText(text, opts, len(args))
	if err != nil {
		return zero, false, err
	}

	ctx, cancel := c.withTimeout(ctx, opts.Timeout)
	defer cancel()
	start := time.Now()

	rows, err := c.conn().QueryContext(ctx, c.dialect.Rebind(query), args...)
	if err = c.observe(OpRaw, start, err); err != nil {
		return zero, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, false, c.dialect.TranslateError(err)
		}
		return zero, false, nil
	}
	r, err := scan(rows)
	if err != nil {
		return zero, false, fmt.Errorf("store: scan: %w", err)
	}
	return r, true, nil
}

// ScanEntity adapts a table scanner for use with RawQuery.
func ScanEntity[T domain.Entity](t *Table[T]) ScanFunc[T] {
	return t.Scan
}
