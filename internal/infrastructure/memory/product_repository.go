package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	store *Store
	inTx  bool
}

// NewProductRepository construye el repositorio sobre el almacén.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	defer r.store.guard(r.inTx)()
	if _, ok := r.store.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.codigoTaken(p.Codigo, "") {
		return fmt.Errorf("%w: ya existe un producto con codigo %s", domain.ErrDuplicate, p.Codigo)
	}
	r.store.products[p.ID] = cloneProduct(p)
	r.store.productProviders[p.ID] = append([]string(nil), p.ProviderIDs...)
	return nil
}

func (r *ProductRepository) codigoTaken(codigo, exceptID string) bool {
	for _, p := range r.store.products {
		if p.Codigo == codigo && p.ID != exceptID && !p.IsDeleted() {
			return true
		}
	}
	return false
}

// get devuelve una copia del producto activo con sus proveedores, o nil.
func (r *ProductRepository) get(id string) *entity.Product {
	p, ok := r.store.products[id]
	if !ok || p.IsDeleted() {
		return nil
	}
	c := cloneProduct(p)
	c.ProviderIDs = append([]string(nil), r.store.productProviders[id]...)
	return c
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.store.guard(r.inTx)()
	return r.get(id), nil
}

func (r *ProductRepository) GetByCodigo(_ context.Context, codigo string) (*entity.Product, error) {
	defer r.store.guard(r.inTx)()
	for _, id := range sortedKeys(r.store.products) {
		if r.store.products[id].Codigo == codigo {
			if p := r.get(id); p != nil {
				return p, nil
			}
		}
	}
	return nil, nil
}

func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	defer r.store.guard(r.inTx)()
	out := make([]*entity.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p := r.get(id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetForUpdate en memoria el bloqueo lo da el mutex de la transacción; devuelve en orden de id.
func (r *ProductRepository) GetForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	out, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	defer r.store.guard(r.inTx)()
	cur, ok := r.store.products[p.ID]
	if !ok || cur.IsDeleted() {
		return domain.ErrNotFound
	}
	if r.codigoTaken(p.Codigo, p.ID) {
		return fmt.Errorf("%w: ya existe un producto con codigo %s", domain.ErrDuplicate, p.Codigo)
	}
	cur.Codigo = p.Codigo
	cur.Nombre = p.Nombre
	cur.ProductType = p.ProductType
	cur.MeasureUnit = p.MeasureUnit
	cur.Planos = p.Planos
	cur.Image = nil
	if p.Image != nil {
		img := *p.Image
		cur.Image = &img
	}
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *ProductRepository) AdjustStock(_ context.Context, id string, deltaExistencia, deltaReservada decimal.Decimal) (*entity.Product, error) {
	defer r.store.guard(r.inTx)()
	cur, ok := r.store.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if err := cur.ApplyAdjustment(deltaExistencia, deltaReservada); err != nil {
		return nil, err
	}
	cur.UpdatedAt = time.Now()
	return r.get(id), nil
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	defer r.store.guard(r.inTx)()
	var matched []*entity.Product
	for _, p := range r.store.products {
		if p.IsDeleted() {
			continue
		}
		if f.Codigo != "" && !containsFold(p.Codigo, f.Codigo) {
			continue
		}
		if f.Nombre != "" && !containsFold(p.Nombre, f.Nombre) {
			continue
		}
		if f.ProductType != "" && p.ProductType != f.ProductType {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Codigo < matched[j].Codigo })
	start, end := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.Product, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, r.get(p.ID))
	}
	return out, len(matched), nil
}

func (r *ProductRepository) SoftDelete(_ context.Context, id string) error {
	defer r.store.guard(r.inTx)()
	cur, ok := r.store.products[id]
	if !ok || cur.IsDeleted() {
		return domain.ErrNotFound
	}
	now := time.Now()
	cur.DeletedAt = &now
	return nil
}

func (r *ProductRepository) GetMaterials(_ context.Context, compoundID string) ([]entity.MaterialItem, error) {
	defer r.store.guard(r.inTx)()
	return append([]entity.MaterialItem(nil), r.store.materials[compoundID]...), nil
}

func (r *ProductRepository) ReplaceMaterials(_ context.Context, compoundID string, items []entity.MaterialItem) error {
	defer r.store.guard(r.inTx)()
	if len(items) == 0 {
		delete(r.store.materials, compoundID)
		return nil
	}
	list := make([]entity.MaterialItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.CompoundID = compoundID
		list = append(list, it)
	}
	r.store.materials[compoundID] = list
	return nil
}

func (r *ProductRepository) GetConsumers(_ context.Context, componentID string) ([]string, error) {
	defer r.store.guard(r.inTx)()
	var out []string
	for _, compoundID := range sortedKeys(r.store.materials) {
		if p, ok := r.store.products[compoundID]; !ok || p.IsDeleted() {
			continue
		}
		for _, m := range r.store.materials[compoundID] {
			if m.ComponentID == componentID {
				out = append(out, compoundID)
				break
			}
		}
	}
	return out, nil
}

func (r *ProductRepository) SetProviders(_ context.Context, productID string, providerIDs []string) error {
	defer r.store.guard(r.inTx)()
	if _, ok := r.store.products[productID]; !ok {
		return domain.ErrNotFound
	}
	r.store.productProviders[productID] = append([]string(nil), providerIDs...)
	return nil
}
