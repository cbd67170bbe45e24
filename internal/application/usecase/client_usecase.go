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

// ClientUseCase CRUD de clientes. ciRif es único entre clientes activos.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create registra un cliente. ErrDuplicate si el ciRif ya existe.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	ciRif := strings.TrimSpace(in.CiRif)
	existing, err := uc.repo.GetByCiRif(ctx, ciRif)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un cliente con ciRif %s", domain.ErrDuplicate, ciRif)
	}
	now := time.Now()
	c := &entity.Client{
		ID:              uuid.New().String(),
		NombreContacto:  strings.TrimSpace(in.NombreContacto),
		NombreEmpresa:   strings.TrimSpace(in.NombreEmpresa),
		EmpresaTelefono: strings.TrimSpace(in.EmpresaTelefono),
		EmailEmpresa:    strings.TrimSpace(in.EmailEmpresa),
		EmailContacto:   strings.TrimSpace(in.EmailContacto),
		CiRif:           ciRif,
		DireccionFiscal: strings.TrimSpace(in.DireccionFiscal),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// GetByID obtiene un cliente. ErrNotFound si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return toClientResponse(c), nil
}

// Update actualiza los campos enviados.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	if in.CiRif != nil && strings.TrimSpace(*in.CiRif) != c.CiRif {
		ciRif := strings.TrimSpace(*in.CiRif)
		other, err := uc.repo.GetByCiRif(ctx, ciRif)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: ya existe un cliente con ciRif %s", domain.ErrDuplicate, ciRif)
		}
		c.CiRif = ciRif
	}
	setTrimmed(&c.NombreContacto, in.NombreContacto)
	setTrimmed(&c.NombreEmpresa, in.NombreEmpresa)
	setTrimmed(&c.EmpresaTelefono, in.EmpresaTelefono)
	setTrimmed(&c.EmailEmpresa, in.EmailEmpresa)
	setTrimmed(&c.EmailContacto, in.EmailContacto)
	setTrimmed(&c.DireccionFiscal, in.DireccionFiscal)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// List lista clientes filtrando por nombre de empresa.
func (uc *ClientUseCase) List(ctx context.Context, q dto.NameListQuery) (*dto.ClientListResponse, error) {
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ClientFilter{
		NombreEmpresa: strings.TrimSpace(q.Name),
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete elimina lógicamente un cliente; el historial conserva la referencia.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.SoftDelete(ctx, id)
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:              c.ID,
		NombreContacto:  c.NombreContacto,
		NombreEmpresa:   c.NombreEmpresa,
		EmpresaTelefono: c.EmpresaTelefono,
		EmailEmpresa:    c.EmailEmpresa,
		EmailContacto:   c.EmailContacto,
		CiRif:           c.CiRif,
		DireccionFiscal: c.DireccionFiscal,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
