package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

const orderColumns = `o.id, o.product_id, o.cantidad_producto_fabricado, o.order_state, o.start_date, o.end_date,
	o.real_end_date, o.responsables, o.created_at, o.updated_at`

// ProductionOrderRepo implementación del puerto ProductionOrderRepository sobre PostgreSQL.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.ProductionOrder, error) {
	var (
		o     entity.ProductionOrder
		state string
	)
	err := row.Scan(&o.ID, &o.ProductID, &o.CantidadProductoFabricado, &state, &o.StartDate, &o.EndDate,
		&o.RealEndDate, &o.Responsables, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.OrderState = entity.OrderState(state)
	return &o, nil
}

// Create persiste una orden nueva.
func (r *ProductionOrderRepo) Create(ctx context.Context, o *entity.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (id, product_id, cantidad_producto_fabricado, order_state, start_date, end_date, real_end_date, responsables, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.ProductID, o.CantidadProductoFabricado, string(o.OrderState), o.StartDate, o.EndDate,
		o.RealEndDate, o.Responsables, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

func (r *ProductionOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders o WHERE o.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	return o, nil
}

// GetByID obtiene una orden por ID.
func (r *ProductionOrderRepo) GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la orden bloqueando su fila hasta el fin de la transacción.
func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.get(ctx, id, true)
}

// Update guarda cantidad, estado, fechas y responsables.
func (r *ProductionOrderRepo) Update(ctx context.Context, o *entity.ProductionOrder) error {
	query := `
		UPDATE production_orders
		SET cantidad_producto_fabricado = $2, order_state = $3, start_date = $4, end_date = $5,
		    real_end_date = $6, responsables = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.CantidadProductoFabricado, string(o.OrderState), o.StartDate, o.EndDate,
		o.RealEndDate, o.Responsables, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes con filtros, más recientes primero. Las fechas filtran por día.
func (r *ProductionOrderRepo) List(ctx context.Context, f repository.ProductionOrderFilter) ([]*entity.ProductionOrder, int, error) {
	base := psql.Select(orderColumns).From("production_orders o")
	if f.ProductName != "" {
		base = base.Join("products p ON p.id = o.product_id").
			Where(squirrel.ILike{"p.nombre": likePattern(f.ProductName)})
	}
	if f.ProductID != "" {
		base = base.Where(squirrel.Eq{"o.product_id": f.ProductID})
	}
	if f.OrderState != "" {
		base = base.Where(squirrel.Eq{"o.order_state": string(f.OrderState)})
	}
	if f.StartDate != nil {
		base = base.Where("o.start_date::date = ?::date", *f.StartDate)
	}
	if f.EndDate != nil {
		base = base.Where("o.end_date = ?::date", *f.EndDate)
	}
	if f.RealEndDate != nil {
		base = base.Where("o.real_end_date::date = ?::date", *f.RealEndDate)
	}
	total, err := count(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := paginate(base.OrderBy("o.created_at DESC", "o.id DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan production order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// CountOpenByProduct cuenta órdenes Por iniciar o En proceso del producto.
func (r *ProductionOrderRepo) CountOpenByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM production_orders WHERE product_id = $1 AND order_state = ANY($2)`,
		productID, []string{string(entity.OrderStatePorIniciar), string(entity.OrderStateEnProceso)},
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open production orders: %w", err)
	}
	return n, nil
}
