package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, codigo, nombre, product_type, measure_unit, existencia, existencia_reservada,
	planos, image, created_at, updated_at, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p           entity.Product
		productType string
	)
	err := row.Scan(&p.ID, &p.Codigo, &p.Nombre, &productType, &p.MeasureUnit, &p.Existencia, &p.ExistenciaReservada,
		&p.Planos, &p.Image, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	p.ProductType = entity.ProductType(productType)
	return &p, nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// loadProviders completa ProviderIDs de todos los productos con una sola consulta.
func (r *ProductRepo) loadProviders(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := r.q.Query(ctx,
		`SELECT product_id, provider_id FROM product_providers WHERE product_id = ANY($1::uuid[]) ORDER BY provider_id`, ids)
	if err != nil {
		return fmt.Errorf("query product providers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID, providerID string
		if err := rows.Scan(&productID, &providerID); err != nil {
			return fmt.Errorf("scan product provider: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.ProviderIDs = append(p.ProviderIDs, providerID)
		}
	}
	return rows.Err()
}

// Create persiste un nuevo producto y sus proveedores.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, codigo, nombre, product_type, measure_unit, existencia, existencia_reservada, planos, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Codigo, p.Nombre, string(p.ProductType), p.MeasureUnit, p.Existencia, p.ExistenciaReservada,
		p.Planos, p.Image, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con codigo %s", domain.ErrDuplicate, p.Codigo)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return r.SetProviders(ctx, p.ID, p.ProviderIDs)
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadProviders(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByCodigo obtiene un producto activo por codigo.
func (r *ProductRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE codigo = $1 AND deleted_at IS NULL`, codigo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by codigo: %w", err)
	}
	if err := r.loadProviders(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByIDs obtiene los productos activos de la lista (los que no existen se omiten).
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list, err := r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	return list, r.loadProviders(ctx, list)
}

// GetForUpdate bloquea las filas en orden de id para que dos transacciones no se crucen (deadlock).
func (r *ProductRepo) GetForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL ORDER BY id FOR UPDATE`, ids)
}

// Update actualiza datos descriptivos y tipo. Existencias solo vía AdjustStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET codigo = $2, nombre = $3, product_type = $4, measure_unit = $5, planos = $6, image = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Codigo, p.Nombre, string(p.ProductType), p.MeasureUnit, p.Planos, p.Image, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con codigo %s", domain.ErrDuplicate, p.Codigo)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock aplica los deltas en un único UPDATE condicionado al invariante
// 0 <= existencia_reservada <= existencia. Si la condición falla no se toca la fila.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, deltaExistencia, deltaReservada decimal.Decimal) (*entity.Product, error) {
	query := `
		UPDATE products
		SET existencia = existencia + $2, existencia_reservada = existencia_reservada + $3, updated_at = now()
		WHERE id = $1
		  AND existencia + $2 >= 0
		  AND existencia_reservada + $3 >= 0
		  AND existencia_reservada + $3 <= existencia + $2
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, deltaExistencia, deltaReservada))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	// Sin fila: el producto no existe o el ajuste rompe el invariante; se relee para el mensaje.
	cur, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := cur.CheckAdjustment(deltaExistencia, deltaReservada); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, cur.Label())
}

// List lista productos activos con filtros (coincidencia parcial, sin distinguir mayúsculas) ordenados por codigo.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	base := psql.Select(productColumns).From("products").Where("deleted_at IS NULL")
	if f.Codigo != "" {
		base = base.Where(squirrel.ILike{"codigo": likePattern(f.Codigo)})
	}
	if f.Nombre != "" {
		base = base.Where(squirrel.ILike{"nombre": likePattern(f.Nombre)})
	}
	if f.ProductType != "" {
		base = base.Where(squirrel.Eq{"product_type": string(f.ProductType)})
	}
	total, err := count(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := paginate(base.OrderBy("codigo"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	list, err := r.queryProducts(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadProviders(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// SoftDelete marca deleted_at. ErrNotFound si no existe o ya estaba eliminado.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetMaterials devuelve la lista de materiales en el orden en que se cargó.
func (r *ProductRepo) GetMaterials(ctx context.Context, compoundID string) ([]entity.MaterialItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, compound_id, component_id, quantity FROM product_materials WHERE compound_id = $1 ORDER BY position, id`, compoundID)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()
	var items []entity.MaterialItem
	for rows.Next() {
		var m entity.MaterialItem
		if err := rows.Scan(&m.ID, &m.CompoundID, &m.ComponentID, &m.Quantity); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ReplaceMaterials reemplaza la lista de materiales completa (DELETE + INSERT multi-fila).
func (r *ProductRepo) ReplaceMaterials(ctx context.Context, compoundID string, items []entity.MaterialItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_materials WHERE compound_id = $1`, compoundID); err != nil {
		return fmt.Errorf("delete materials: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	ins := psql.Insert("product_materials").Columns("id", "compound_id", "component_id", "quantity", "position")
	for i, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.New().String()
		}
		ins = ins.Values(id, compoundID, it.ComponentID, it.Quantity, i)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert materials: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: material repetido en la lista", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert materials: %w", err)
	}
	return nil
}

// GetConsumers ids de los productos activos que usan componentID como material.
func (r *ProductRepo) GetConsumers(ctx context.Context, componentID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT m.compound_id
		FROM product_materials m
		JOIN products p ON p.id = m.compound_id
		WHERE m.component_id = $1 AND p.deleted_at IS NULL
		ORDER BY m.compound_id`, componentID)
	if err != nil {
		return nil, fmt.Errorf("query consumers: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan consumer: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetProviders reemplaza los proveedores del producto.
func (r *ProductRepo) SetProviders(ctx context.Context, productID string, providerIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_providers WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product providers: %w", err)
	}
	if len(providerIDs) == 0 {
		return nil
	}
	ins := psql.Insert("product_providers").Columns("product_id", "provider_id")
	for _, id := range providerIDs {
		ins = ins.Values(productID, id)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert product providers: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product providers: %w", err)
	}
	return nil
}
