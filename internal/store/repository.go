package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// table describes how one record type maps onto its SQL table.
type table[T any] struct {
	// name is the SQL table name; entity is the singular noun used in errors.
	name   string
	entity string

	// columns lists every column except id, in insert order.
	columns []string

	// id returns a pointer to the record's id field.
	id func(*T) *int64

	// prepare stamps timestamps and normalizes optional fields before
	// validation. creating is true on insert.
	prepare func(rec *T, now time.Time, creating bool)

	// check holds rules struct tags cannot express. May be nil.
	check func(*T) error
}

// Repository is the typed CRUD surface shared by every entity store.
// Entity-specific finders are added by the stores that embed it.
type Repository[T any] struct {
	db  *sqlx.DB
	t   table[T]
	now func() time.Time

	insertSQL string
	updateSQL string
}

func newRepository[T any](db *sqlx.DB, t table[T], now func() time.Time) *Repository[T] {
	named := make([]string, len(t.columns))
	var sets []string
	for i, c := range t.columns {
		named[i] = ":" + c
		if c != "created_at" {
			sets = append(sets, c+" = :"+c)
		}
	}

	return &Repository[T]{
		db:  db,
		t:   t,
		now: now,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t.name, strings.Join(t.columns, ", "), strings.Join(named, ", ")),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE id = :id",
			t.name, strings.Join(sets, ", ")),
	}
}

// FindAll returns every record in id order.
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.selectWhere(ctx, r.db, "", "id")
}

// FindByID returns the record with the given id, or nil when there is none.
func (r *Repository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.findByID(ctx, r.db, id)
}

// Count returns the number of rows in the table.
func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+r.t.name); err != nil {
		return 0, storageErr("counting "+r.t.name, err)
	}
	return n, nil
}

// Create validates and inserts rec, returning it with id and timestamps set.
// The id must be zero on input.
func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	var out T
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		out, err = r.create(ctx, tx, rec)
		return err
	})
	return out, err
}

// Update loads the record, applies the partial change, re-validates and
// writes it back in one transaction. It returns nil when id is unknown.
// The id cannot be changed by apply.
func (r *Repository[T]) Update(ctx context.Context, id int64, apply func(*T)) (*T, error) {
	var out *T
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		out, err = r.update(ctx, tx, id, apply)
		return err
	})
	return out, err
}

// Delete removes the record by id and reports whether a row was removed.
// Dependent rows follow the schema's ON DELETE rules.
func (r *Repository[T]) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+r.t.name+" WHERE id = ?", id)
		if err != nil {
			return storageErr(fmt.Sprintf("deleting %s %d", r.t.entity, id), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr(fmt.Sprintf("deleting %s %d", r.t.entity, id), err)
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

func (r *Repository[T]) create(ctx context.Context, ext sqlx.ExtContext, rec T) (T, error) {
	var zero T
	if *r.t.id(&rec) != 0 {
		return zero, &ValidationError{Entity: r.t.entity, Field: "id", Reason: "must not be set before insert"}
	}

	r.t.prepare(&rec, r.now().UTC(), true)
	if err := r.validate(&rec); err != nil {
		return zero, err
	}

	res, err := sqlx.NamedExecContext(ctx, ext, r.insertSQL, &rec)
	if err != nil {
		return zero, storageErr("creating "+r.t.entity, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return zero, storageErr("creating "+r.t.entity, err)
	}
	*r.t.id(&rec) = id

	return rec, nil
}

func (r *Repository[T]) update(ctx context.Context, ext sqlx.ExtContext, id int64, apply func(*T)) (*T, error) {
	rec, err := r.findByID(ctx, ext, id)
	if err != nil || rec == nil {
		return nil, err
	}

	apply(rec)
	*r.t.id(rec) = id

	r.t.prepare(rec, r.now().UTC(), false)
	if err := r.validate(rec); err != nil {
		return nil, err
	}

	if _, err := sqlx.NamedExecContext(ctx, ext, r.updateSQL, rec); err != nil {
		return nil, storageErr(fmt.Sprintf("updating %s %d", r.t.entity, id), err)
	}
	return rec, nil
}

func (r *Repository[T]) validate(rec *T) error {
	if err := validateStruct(r.t.entity, rec); err != nil {
		return err
	}
	if r.t.check != nil {
		return r.t.check(rec)
	}
	return nil
}

func (r *Repository[T]) findByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*T, error) {
	var rec T
	err := sqlx.GetContext(ctx, q, &rec, "SELECT * FROM "+r.t.name+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("getting %s %d", r.t.entity, id), err)
	}
	return &rec, nil
}

// selectWhere runs SELECT * with an optional WHERE clause and ORDER BY.
func (r *Repository[T]) selectWhere(
	ctx context.Context,
	q sqlx.QueryerContext,
	where string,
	orderBy string,
	args ...interface{},
) ([]T, error) {
	query := "SELECT * FROM " + r.t.name
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	return r.selectQuery(ctx, q, query, args...)
}

// selectQuery runs an arbitrary query whose columns are exactly T's columns.
func (r *Repository[T]) selectQuery(
	ctx context.Context,
	q sqlx.QueryerContext,
	query string,
	args ...interface{},
) ([]T, error) {
	out := []T{}
	if err := sqlx.SelectContext(ctx, q, &out, query, args...); err != nil {
		return nil, storageErr("querying "+r.t.name, err)
	}
	return out, nil
}

func (r *Repository[T]) count(ctx context.Context, where string, args ...interface{}) (int, error) {
	var n int
	query := "SELECT COUNT(*) FROM " + r.t.name + " WHERE " + where
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, storageErr("counting "+r.t.name, err)
	}
	return n, nil
}

// stamp sets created/updated timestamps for a write at now.
func stamp(created, updated *time.Time, now time.Time, creating bool) {
	if creating || created.IsZero() {
		*created = now
	}
	*updated = now
}

// utcPtr normalizes an optional timestamp to UTC so stored text sorts
// chronologically.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing transaction", err)
	}
	return nil
}
