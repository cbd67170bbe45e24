package memory

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ production.TxRunner = (*TxRunner)(nil)
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ usecase.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks con el almacén bloqueado y repos atados a esa "transacción".
// Si el callback devuelve error se restaura el estado previo.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el mutex del almacén, ejecuta fn y hace rollback (restaurando la copia) si falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.ProductionOrderRepository,
	historialRepo repository.HistorialRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	productRepo := &ProductRepository{store: r.store, inTx: true}
	orderRepo := &ProductionOrderRepository{store: r.store, inTx: true}
	historialRepo := &HistorialRepository{store: r.store, inTx: true}

	if err := fn(productRepo, orderRepo, historialRepo); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
