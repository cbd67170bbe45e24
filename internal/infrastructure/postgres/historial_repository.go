package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.HistorialRepository = (*HistorialRepo)(nil)

// HistorialRepo libro de movimientos sobre PostgreSQL. Solo inserta y lee.
type HistorialRepo struct {
	q Querier
}

// NewHistorialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistorialRepository(q Querier) *HistorialRepo {
	return &HistorialRepo{q: q}
}

// Create inserta una fila del historial.
func (r *HistorialRepo) Create(ctx context.Context, h *entity.Historial) error {
	query := `
		INSERT INTO historial (id, action, cantidad, description, product_id, client_id, provider_id, production_order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		h.ID, string(h.Action), h.Cantidad, h.Description, h.ProductID, h.ClientID, h.ProviderID,
		h.ProductionOrderID, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert historial: %w", err)
	}
	return nil
}

// List filtra el historial; From inclusivo, To exclusivo. Más reciente primero.
func (r *HistorialRepo) List(ctx context.Context, f repository.HistorialFilter) ([]*entity.Historial, int, error) {
	base := psql.Select(
		"h.id", "h.action", "h.cantidad", "h.description", "h.product_id", "h.client_id",
		"h.provider_id", "h.production_order_id", "h.created_at",
	).From("historial h")
	if f.ProductName != "" {
		base = base.Join("products p ON p.id = h.product_id").
			Where(squirrel.ILike{"p.nombre": likePattern(f.ProductName)})
	}
	if f.ProductID != "" {
		base = base.Where(squirrel.Eq{"h.product_id": f.ProductID})
	}
	if f.ProviderID != "" {
		base = base.Where(squirrel.Eq{"h.provider_id": f.ProviderID})
	}
	if f.ClientID != "" {
		base = base.Where(squirrel.Eq{"h.client_id": f.ClientID})
	}
	if f.ProductionOrderID != "" {
		base = base.Where(squirrel.Eq{"h.production_order_id": f.ProductionOrderID})
	}
	if f.Action != "" {
		base = base.Where(squirrel.Eq{"h.action": string(f.Action)})
	}
	if f.From != nil {
		base = base.Where(squirrel.GtOrEq{"h.created_at": *f.From})
	}
	if f.To != nil {
		base = base.Where(squirrel.Lt{"h.created_at": *f.To})
	}
	total, err := count(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := paginate(base.OrderBy("h.created_at DESC", "h.seq DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list historial: %w", err)
	}
	defer rows.Close()
	var list []*entity.Historial
	for rows.Next() {
		var (
			h      entity.Historial
			action string
		)
		if err := rows.Scan(&h.ID, &action, &h.Cantidad, &h.Description, &h.ProductID, &h.ClientID,
			&h.ProviderID, &h.ProductionOrderID, &h.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan historial: %w", err)
		}
		h.Action = entity.HistorialAction(action)
		list = append(list, &h)
	}
	return list, total, rows.Err()
}
