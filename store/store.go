// Package store is the SQLite record store behind the tracker. It owns
// every ledger record, the links between them and the tag index.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/internal/logger"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

// Store persists ledger records. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// dsn adds the foreign key pragma to path, keeping any query it already has.
func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Open opens (creating if needed) the database at path and applies the
// schema. Foreign keys are enforced.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, "open database", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		log.Error("schema migration failed", zap.String("path", path), zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeStorage, "apply schema", err)
	}

	s := &Store{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: log,
	}
	if err := s.checkSchemaVersion(context.Background()); err != nil {
		db.Close()
		log.Error("incompatible database", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	log.Debug("store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, "begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, "commit", err)
	}
	return nil
}

// exec runs a built statement and classifies driver errors.
func (s *Store) exec(ctx context.Context, q querier, b squirrel.Sqlizer, what string) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, "build "+what, err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, s.storageErr(what, err)
	}
	return res, nil
}

func (s *Store) query(ctx context.Context, q querier, b squirrel.Sqlizer, what string) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, "build "+what, err)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.storageErr(what, err)
	}
	return rows, nil
}

// get builds b, runs it for a single row and hands the row to scan.
func (s *Store) get(ctx context.Context, q querier, b squirrel.Sqlizer, scan func(scanner) error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, "build query", err)
	}
	return scan(q.QueryRowContext(ctx, query, args...))
}

// storageErr maps unique and foreign key violations to validation errors
// and everything else to storage errors.
func (s *Store) storageErr(what string, err error) error {
	var se sqlite3.Error
	if stderrors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Wrapf(errors.ErrCodeValidation, err, "%s: already exists", what)
		case sqlite3.ErrConstraintForeignKey:
			return errors.Wrapf(errors.ErrCodeNotFound, err, "%s: linked record missing", what)
		}
		return errors.Wrapf(errors.ErrCodeValidation, err, "%s: constraint failed", what)
	}
	s.logger.Error("store operation failed", zap.String("op", what), zap.Error(err))
	return errors.Wrap(errors.ErrCodeStorage, what, err)
}

// notFound converts sql.ErrNoRows into a coded not-found error.
func (s *Store) notFound(err error, kind, id string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.Newf(errors.ErrCodeNotFound, "%s %q not found", kind, id)
	}
	return s.storageErr("get "+kind, err)
}

// mustExist fails with ErrCodeNotFound unless table has a row with id.
func (s *Store) mustExist(ctx context.Context, q querier, table, kind, id string) error {
	var n int
	err := s.get(ctx, q, s.sq.Select("COUNT(*)").From(table).Where(squirrel.Eq{"id": id}),
		func(r scanner) error { return r.Scan(&n) })
	if err != nil {
		return s.storageErr("check "+kind, err)
	}
	if n == 0 {
		return errors.Newf(errors.ErrCodeNotFound, "%s %q not found", kind, id)
	}
	return nil
}

// utc normalizes times so stored values compare correctly as text.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullString(o optional.Option[string]) sql.NullString {
	if o.IsNone() {
		return sql.NullString{}
	}
	return sql.NullString{String: o.Unwrap(), Valid: true}
}

func fromNullString(n sql.NullString) optional.Option[string] {
	if !n.Valid {
		return optional.None[string]()
	}
	return optional.Some(n.String)
}
