package repository

import (
	"context"
	"errors"
	"strings"

	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CRUDRepository 每個實體共用的資料存取契約。
// T 為實體，C 為新增參數，U 為更新參數。
type CRUDRepository[T any, C any, U any] interface {
	FindAll(ctx context.Context, opts ListOptions) ([]*T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, params C) (*T, error)
	Update(ctx context.Context, id uuid.UUID, params U) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// ListOptions Limit 為 0 代表不限制筆數
type ListOptions struct {
	Limit  int
	Offset int
}

// DBTX 由 *pgxpool.Pool 與 pgx.Tx 共同實作
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// table 描述實體對應的資料表與欄位順序，用來產生 SELECT / RETURNING 欄位
type table struct {
	name    string
	columns []string
}

func (t table) columnList() string {
	return strings.Join(t.columns, ", ")
}

func (t table) selectFrom() string {
	return "SELECT " + t.columnList() + " FROM " + t.name
}

// conn 優先使用 context 中的 transaction
func conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return pool
}

func collectAll[T any](rows pgx.Rows, err error) ([]*T, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}

func collectOne[T any](rows pgx.Rows, err error, notFound error) (*T, error) {
	if err != nil {
		return nil, mapError(err, notFound)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, mapError(err, notFound)
	}
	return item, nil
}

// mapError 將 pgx / Postgres 錯誤轉為 app_errors
func mapError(err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return apperrors.Wrap(apperrors.ErrEventNotFound, pgErr.Detail)
		case "23505": // unique_violation
			return apperrors.Wrap(apperrors.ErrConflict, pgErr.Detail)
		case "23514": // check_violation
			return apperrors.Wrap(apperrors.ErrValidationFailed, pgErr.ConstraintName)
		}
	}
	return err
}

// escapeLike 跳脫 LIKE 的萬用字元
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
