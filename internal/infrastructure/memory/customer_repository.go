package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository   = (*ClientRepository)(nil)
	_ repository.ProviderRepository = (*ProviderRepository)(nil)
)

// ClientRepository implementación en memoria de repository.ClientRepository.
type ClientRepository struct {
	store *Store
}

// NewClientRepository construye el repositorio sobre el almacén.
func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

func (r *ClientRepository) ciRifTaken(ciRif, exceptID string) bool {
	for _, c := range r.store.clients {
		if c.CiRif == ciRif && c.ID != exceptID && c.DeletedAt == nil {
			return true
		}
	}
	return false
}

func (r *ClientRepository) Create(_ context.Context, c *entity.Client) error {
	defer r.store.guard(false)()
	if r.ciRifTaken(c.CiRif, "") {
		return fmt.Errorf("%w: ya existe un cliente con ciRif %s", domain.ErrDuplicate, c.CiRif)
	}
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepository) GetByID(_ context.Context, id string) (*entity.Client, error) {
	defer r.store.guard(false)()
	c, ok := r.store.clients[id]
	if !ok || c.DeletedAt != nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepository) GetByCiRif(_ context.Context, ciRif string) (*entity.Client, error) {
	defer r.store.guard(false)()
	for _, c := range r.store.clients {
		if c.CiRif == ciRif && c.DeletedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ClientRepository) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, int, error) {
	defer r.store.guard(false)()
	var matched []*entity.Client
	for _, c := range r.store.clients {
		if c.DeletedAt != nil {
			continue
		}
		if f.NombreEmpresa != "" && !containsFold(c.NombreEmpresa, f.NombreEmpresa) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].NombreEmpresa < matched[j].NombreEmpresa })
	start, end := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.Client, 0, end-start)
	for _, c := range matched[start:end] {
		cp := *c
		out = append(out, &cp)
	}
	return out, len(matched), nil
}

func (r *ClientRepository) Update(_ context.Context, c *entity.Client) error {
	defer r.store.guard(false)()
	cur, ok := r.store.clients[c.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	if r.ciRifTaken(c.CiRif, c.ID) {
		return fmt.Errorf("%w: ya existe un cliente con ciRif %s", domain.ErrDuplicate, c.CiRif)
	}
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepository) SoftDelete(_ context.Context, id string) error {
	defer r.store.guard(false)()
	cur, ok := r.store.clients[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	cur.DeletedAt = &now
	return nil
}

// ProviderRepository implementación en memoria de repository.ProviderRepository.
type ProviderRepository struct {
	store *Store
}

// NewProviderRepository construye el repositorio sobre el almacén.
func NewProviderRepository(store *Store) *ProviderRepository {
	return &ProviderRepository{store: store}
}

func (r *ProviderRepository) ciRifTaken(ciRif, exceptID string) bool {
	for _, p := range r.store.providers {
		if p.CiRif == ciRif && p.ID != exceptID && p.DeletedAt == nil {
			return true
		}
	}
	return false
}

func (r *ProviderRepository) Create(_ context.Context, p *entity.Provider) error {
	defer r.store.guard(false)()
	if r.ciRifTaken(p.CiRif, "") {
		return fmt.Errorf("%w: ya existe un proveedor con ciRif %s", domain.ErrDuplicate, p.CiRif)
	}
	cp := *p
	r.store.providers[p.ID] = &cp
	return nil
}

func (r *ProviderRepository) GetByID(_ context.Context, id string) (*entity.Provider, error) {
	defer r.store.guard(false)()
	p, ok := r.store.providers[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProviderRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Provider, error) {
	defer r.store.guard(false)()
	out := make([]*entity.Provider, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, ok := r.store.providers[id]
		if !ok || p.DeletedAt != nil || seen[id] {
			continue
		}
		seen[id] = true
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProviderRepository) GetByCiRif(_ context.Context, ciRif string) (*entity.Provider, error) {
	defer r.store.guard(false)()
	for _, p := range r.store.providers {
		if p.CiRif == ciRif && p.DeletedAt == nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProviderRepository) List(_ context.Context, f repository.ProviderFilter) ([]*entity.Provider, int, error) {
	defer r.store.guard(false)()
	var matched []*entity.Provider
	for _, p := range r.store.providers {
		if p.DeletedAt != nil {
			continue
		}
		if f.EnterpriseName != "" && !containsFold(p.EnterpriseName, f.EnterpriseName) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].EnterpriseName < matched[j].EnterpriseName })
	start, end := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.Provider, 0, end-start)
	for _, p := range matched[start:end] {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(matched), nil
}

func (r *ProviderRepository) Update(_ context.Context, p *entity.Provider) error {
	defer r.store.guard(false)()
	cur, ok := r.store.providers[p.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	if r.ciRifTaken(p.CiRif, p.ID) {
		return fmt.Errorf("%w: ya existe un proveedor con ciRif %s", domain.ErrDuplicate, p.CiRif)
	}
	cp := *p
	r.store.providers[p.ID] = &cp
	return nil
}

func (r *ProviderRepository) SoftDelete(_ context.Context, id string) error {
	defer r.store.guard(false)()
	cur, ok := r.store.providers[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	cur.DeletedAt = &now
	return nil
}
