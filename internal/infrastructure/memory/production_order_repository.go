package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepository)(nil)

// ProductionOrderRepository implementación en memoria de repository.ProductionOrderRepository.
type ProductionOrderRepository struct {
	store *Store
	inTx  bool
}

// NewProductionOrderRepository construye el repositorio sobre el almacén.
func NewProductionOrderRepository(store *Store) *ProductionOrderRepository {
	return &ProductionOrderRepository{store: store}
}

func (r *ProductionOrderRepository) Create(_ context.Context, o *entity.ProductionOrder) error {
	defer r.store.guard(r.inTx)()
	if _, ok := r.store.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *ProductionOrderRepository) GetByID(_ context.Context, id string) (*entity.ProductionOrder, error) {
	defer r.store.guard(r.inTx)()
	return cloneOrder(r.store.orders[id]), nil
}

func (r *ProductionOrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductionOrderRepository) Update(_ context.Context, o *entity.ProductionOrder) error {
	defer r.store.guard(r.inTx)()
	if _, ok := r.store.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *ProductionOrderRepository) List(_ context.Context, f repository.ProductionOrderFilter) ([]*entity.ProductionOrder, int, error) {
	defer r.store.guard(r.inTx)()
	var matched []*entity.ProductionOrder
	for _, o := range r.store.orders {
		if f.ProductID != "" && o.ProductID != f.ProductID {
			continue
		}
		if f.ProductName != "" {
			p, ok := r.store.products[o.ProductID]
			if !ok || !containsFold(p.Nombre, f.ProductName) {
				continue
			}
		}
		if f.OrderState != "" && o.OrderState != f.OrderState {
			continue
		}
		if f.StartDate != nil && (o.StartDate == nil || !sameDay(*o.StartDate, *f.StartDate)) {
			continue
		}
		if f.EndDate != nil && !sameDay(o.EndDate, *f.EndDate) {
			continue
		}
		if f.RealEndDate != nil && (o.RealEndDate == nil || !sameDay(*o.RealEndDate, *f.RealEndDate)) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	start, end := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.ProductionOrder, 0, end-start)
	for _, o := range matched[start:end] {
		out = append(out, cloneOrder(o))
	}
	return out, len(matched), nil
}

func (r *ProductionOrderRepository) CountOpenByProduct(_ context.Context, productID string) (int, error) {
	defer r.store.guard(r.inTx)()
	n := 0
	for _, o := range r.store.orders {
		if o.ProductID == productID && o.IsOpen() {
			n++
		}
	}
	return n, nil
}
