package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrConflict            = errors.New("record conflicts with an existing one")
	ErrReferenceNotFound   = errors.New("referenced record not found")
	ErrConstraintViolation = errors.New("record violates a database constraint")
)

// executor возвращает exec, если он задан, иначе пул соединений.
func executor(db *sql.DB, exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return db
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// mapPQError переводит ошибки Postgres в ошибки репозитория по коду SQLSTATE.
func mapPQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, pqErr.Constraint)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pqErr.Message)
	}
	return err
}
