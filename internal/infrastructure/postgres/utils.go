package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier métodos comunes de *pgxpool.Pool y pgx.Tx; los repos aceptan cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql constructor de consultas con placeholders $n.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// count ejecuta SELECT COUNT(*) sobre la consulta filtrada (sin orden ni paginación).
func count(ctx context.Context, q Querier, base squirrel.SelectBuilder) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").FromSelect(base, "sub").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// paginate aplica LIMIT/OFFSET si vienen definidos.
func paginate(q squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return q
}

func likePattern(s string) string {
	return "%" + s + "%"
}
