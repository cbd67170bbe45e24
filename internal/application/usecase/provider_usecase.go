package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProviderUseCase CRUD de proveedores. ciRif es único entre proveedores activos.
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

// Create registra un proveedor. ErrDuplicate si el ciRif ya existe.
func (uc *ProviderUseCase) Create(ctx context.Context, in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	ciRif := strings.TrimSpace(in.CiRif)
	existing, err := uc.repo.GetByCiRif(ctx, ciRif)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un proveedor con ciRif %s", domain.ErrDuplicate, ciRif)
	}
	now := time.Now()
	p := &entity.Provider{
		ID:              uuid.New().String(),
		EnterpriseName:  strings.TrimSpace(in.EnterpriseName),
		PersonContact:   strings.TrimSpace(in.PersonContact),
		EnterprisePhone: strings.TrimSpace(in.EnterprisePhone),
		Description:     strings.TrimSpace(in.Description),
		Email:           strings.TrimSpace(in.Email),
		CiRif:           ciRif,
		TaxAddress:      strings.TrimSpace(in.TaxAddress),
		Address:         strings.TrimSpace(in.Address),
		Website:         strings.TrimSpace(in.Website),
		Instagram:       strings.TrimSpace(in.Instagram),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// GetByID obtiene un proveedor. ErrNotFound si no existe.
func (uc *ProviderUseCase) GetByID(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return toProviderResponse(p), nil
}

// Update actualiza los campos enviados.
func (uc *ProviderUseCase) Update(ctx context.Context, id string, in dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	if in.CiRif != nil && strings.TrimSpace(*in.CiRif) != p.CiRif {
		ciRif := strings.TrimSpace(*in.CiRif)
		other, err := uc.repo.GetByCiRif(ctx, ciRif)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: ya existe un proveedor con ciRif %s", domain.ErrDuplicate, ciRif)
		}
		p.CiRif = ciRif
	}
	setTrimmed(&p.EnterpriseName, in.EnterpriseName)
	setTrimmed(&p.PersonContact, in.PersonContact)
	setTrimmed(&p.EnterprisePhone, in.EnterprisePhone)
	setTrimmed(&p.Description, in.Description)
	setTrimmed(&p.Email, in.Email)
	setTrimmed(&p.TaxAddress, in.TaxAddress)
	setTrimmed(&p.Address, in.Address)
	setTrimmed(&p.Website, in.Website)
	setTrimmed(&p.Instagram, in.Instagram)
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// List lista proveedores filtrando por nombre de empresa.
func (uc *ProviderUseCase) List(ctx context.Context, q dto.NameListQuery) (*dto.ProviderListResponse, error) {
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProviderFilter{
		EnterpriseName: strings.TrimSpace(q.Name),
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProviderResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProviderResponse(p))
	}
	return &dto.ProviderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete elimina lógicamente un proveedor.
func (uc *ProviderUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.SoftDelete(ctx, id)
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:              p.ID,
		EnterpriseName:  p.EnterpriseName,
		PersonContact:   p.PersonContact,
		EnterprisePhone: p.EnterprisePhone,
		Description:     p.Description,
		Email:           p.Email,
		CiRif:           p.CiRif,
		TaxAddress:      p.TaxAddress,
		Address:         p.Address,
		Website:         p.Website,
		Instagram:       p.Instagram,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
