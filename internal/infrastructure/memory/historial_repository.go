package memory

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.HistorialRepository = (*HistorialRepository)(nil)

// HistorialRepository implementación en memoria del historial (append-only).
type HistorialRepository struct {
	store *Store
	inTx  bool
}

// NewHistorialRepository construye el repositorio sobre el almacén.
func NewHistorialRepository(store *Store) *HistorialRepository {
	return &HistorialRepository{store: store}
}

func (r *HistorialRepository) Create(_ context.Context, h *entity.Historial) error {
	defer r.store.guard(r.inTx)()
	r.store.historial = append(r.store.historial, cloneHistorial(h))
	return nil
}

// List devuelve las filas más recientes primero (orden inverso de inserción).
func (r *HistorialRepository) List(_ context.Context, f repository.HistorialFilter) ([]*entity.Historial, int, error) {
	defer r.store.guard(r.inTx)()
	var matched []*entity.Historial
	for i := len(r.store.historial) - 1; i >= 0; i-- {
		h := r.store.historial[i]
		if !matchRef(h.ProductID, f.ProductID) ||
			!matchRef(h.ProviderID, f.ProviderID) ||
			!matchRef(h.ClientID, f.ClientID) ||
			!matchRef(h.ProductionOrderID, f.ProductionOrderID) {
			continue
		}
		if f.Action != "" && h.Action != f.Action {
			continue
		}
		if f.From != nil && h.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !h.CreatedAt.Before(*f.To) {
			continue
		}
		if f.ProductName != "" {
			if h.ProductID == nil {
				continue
			}
			p, ok := r.store.products[*h.ProductID]
			if !ok || !containsFold(p.Nombre, f.ProductName) {
				continue
			}
		}
		matched = append(matched, h)
	}
	start, end := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.Historial, 0, end-start)
	for _, h := range matched[start:end] {
		out = append(out, cloneHistorial(h))
	}
	return out, len(matched), nil
}

func matchRef(ref *string, want string) bool {
	if want == "" {
		return true
	}
	return ref != nil && *ref == want
}
