package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Store almacén en memoria de todas las entidades. Un único mutex serializa las operaciones;
// TxRunner lo mantiene tomado durante toda la transacción y restaura una copia si el callback falla.
type Store struct {
	mu sync.Mutex

	products         map[string]*entity.Product
	materials        map[string][]entity.MaterialItem // por compuesto
	productProviders map[string][]string
	orders           map[string]*entity.ProductionOrder
	historial        []*entity.Historial
	clients          map[string]*entity.Client
	providers        map[string]*entity.Provider
	users            map[string]*entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:         make(map[string]*entity.Product),
		materials:        make(map[string][]entity.MaterialItem),
		productProviders: make(map[string][]string),
		orders:           make(map[string]*entity.ProductionOrder),
		clients:          make(map[string]*entity.Client),
		providers:        make(map[string]*entity.Provider),
		users:            make(map[string]*entity.User),
	}
}

// guard toma el mutex salvo que el repositorio esté atado a una transacción (el mutex ya lo tiene Run).
func (s *Store) guard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	products         map[string]*entity.Product
	materials        map[string][]entity.MaterialItem
	productProviders map[string][]string
	orders           map[string]*entity.ProductionOrder
	historial        []*entity.Historial
	clients          map[string]*entity.Client
	providers        map[string]*entity.Provider
	users            map[string]*entity.User
}

// snapshot copia el estado. Las entidades guardadas nunca se comparten con el exterior,
// por eso basta con clonar las que se mutan en sitio (productos y órdenes).
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:         make(map[string]*entity.Product, len(s.products)),
		materials:        make(map[string][]entity.MaterialItem, len(s.materials)),
		productProviders: make(map[string][]string, len(s.productProviders)),
		orders:           make(map[string]*entity.ProductionOrder, len(s.orders)),
		historial:        append([]*entity.Historial(nil), s.historial...),
		clients:          make(map[string]*entity.Client, len(s.clients)),
		providers:        make(map[string]*entity.Provider, len(s.providers)),
		users:            make(map[string]*entity.User, len(s.users)),
	}
	for k, v := range s.products {
		snap.products[k] = cloneProduct(v)
	}
	for k, v := range s.materials {
		snap.materials[k] = append([]entity.MaterialItem(nil), v...)
	}
	for k, v := range s.productProviders {
		snap.productProviders[k] = append([]string(nil), v...)
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.clients {
		c := *v
		snap.clients[k] = &c
	}
	for k, v := range s.providers {
		p := *v
		snap.providers[k] = &p
	}
	for k, v := range s.users {
		u := *v
		snap.users[k] = &u
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.materials = snap.materials
	s.productProviders = snap.productProviders
	s.orders = snap.orders
	s.historial = snap.historial
	s.clients = snap.clients
	s.providers = snap.providers
	s.users = snap.users
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	c.ProviderIDs = append([]string(nil), p.ProviderIDs...)
	c.DeletedAt = cloneTime(p.DeletedAt)
	return &c
}

func cloneOrder(o *entity.ProductionOrder) *entity.ProductionOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.StartDate = cloneTime(o.StartDate)
	c.RealEndDate = cloneTime(o.RealEndDate)
	return &c
}

func cloneHistorial(h *entity.Historial) *entity.Historial {
	c := *h
	c.ProductID = cloneString(h.ProductID)
	c.ClientID = cloneString(h.ClientID)
	c.ProviderID = cloneString(h.ProviderID)
	c.ProductionOrderID = cloneString(h.ProductionOrderID)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// paginate aplica offset/limit sobre un total ya filtrado y ordenado.
func paginate(total, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return offset, end
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
