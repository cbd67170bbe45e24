package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// MaterialItemRequest componente de la lista de materiales: cantidad por unidad fabricada.
type MaterialItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// ProductImageRequest imagen del producto.
type ProductImageRequest struct {
	URI    string `json:"uri" validate:"required,url"`
	Width  int    `json:"width" validate:"min=0"`
	Height int    `json:"height" validate:"min=0"`
}

// CreateProductRequest entrada para crear un producto. Existencia inicia en 0; el tipo se deriva de Materials.
type CreateProductRequest struct {
	Codigo      string                `json:"codigo" validate:"required,min=1,max=50"`
	Nombre      string                `json:"nombre" validate:"required,min=3,max=200"`
	MeasureUnit string                `json:"measure_unit" validate:"required,max=30"`
	Planos      string                `json:"planos" validate:"omitempty,url"`
	Image       *ProductImageRequest  `json:"image"`
	Materials   []MaterialItemRequest `json:"materials" validate:"dive"`
	ProviderIDs []string              `json:"provider_ids" validate:"dive,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto. Existencias solo cambian vía cargas, descargas y órdenes.
// Materials nil no toca la lista; un slice vacío la elimina.
type UpdateProductRequest struct {
	Codigo      *string                `json:"codigo" validate:"omitempty,min=1,max=50"`
	Nombre      *string                `json:"nombre" validate:"omitempty,min=3,max=200"`
	MeasureUnit *string                `json:"measure_unit" validate:"omitempty,max=30"`
	Planos      *string                `json:"planos" validate:"omitempty,url"`
	Image       *ProductImageRequest   `json:"image"`
	Materials   *[]MaterialItemRequest `json:"materials" validate:"omitempty,dive"`
	ProviderIDs *[]string              `json:"provider_ids" validate:"omitempty,dive,uuid"`
}

// ProductListQuery filtros de GET /api/v1/products.
type ProductListQuery struct {
	PageRequest
	Codigo      string `query:"codigo"`
	Nombre      string `query:"nombre"`
	ProductType string `query:"product_type" validate:"omitempty,oneof=insumos sencillos compuestos"`
}

// MaterialItemResponse componente en la respuesta de un producto.
type MaterialItemResponse struct {
	ProductID string          `json:"product_id"`
	Codigo    string          `json:"codigo,omitempty"`
	Nombre    string          `json:"nombre,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProductImageResponse imagen del producto.
type ProductImageResponse struct {
	URI    string `json:"uri"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                  string                 `json:"id"`
	Codigo              string                 `json:"codigo"`
	Nombre              string                 `json:"nombre"`
	ProductType         string                 `json:"product_type"`
	MeasureUnit         string                 `json:"measure_unit"`
	Existencia          decimal.Decimal        `json:"existencia"`
	ExistenciaReservada decimal.Decimal        `json:"existencia_reservada"`
	Disponible          decimal.Decimal        `json:"disponible"`
	Planos              string                 `json:"planos,omitempty"`
	Image               *ProductImageResponse  `json:"image,omitempty"`
	Materials           []MaterialItemResponse `json:"materials,omitempty"`
	ProviderIDs         []string               `json:"provider_ids,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse convierte un producto a su DTO. components (opcional) aporta codigo y nombre de los materiales.
func ToProductResponse(p *entity.Product, bom []entity.MaterialItem, components map[string]*entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	out := &ProductResponse{
		ID:                  p.ID,
		Codigo:              p.Codigo,
		Nombre:              p.Nombre,
		ProductType:         string(p.ProductType),
		MeasureUnit:         p.MeasureUnit,
		Existencia:          p.Existencia,
		ExistenciaReservada: p.ExistenciaReservada,
		Disponible:          p.Disponible(),
		Planos:              p.Planos,
		ProviderIDs:         p.ProviderIDs,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.Image != nil {
		out.Image = &ProductImageResponse{URI: p.Image.URI, Width: p.Image.Width, Height: p.Image.Height}
	}
	for _, m := range bom {
		item := MaterialItemResponse{ProductID: m.ComponentID, Quantity: m.Quantity}
		if c, ok := components[m.ComponentID]; ok {
			item.Codigo, item.Nombre = c.Codigo, c.Nombre
		}
		out.Materials = append(out.Materials, item)
	}
	return out
}
