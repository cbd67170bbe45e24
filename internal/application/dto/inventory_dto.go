package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ChargeRequest body para PATCH /api/v1/products/:id/charge (acciones INGRESO, VARIOS).
type ChargeRequest struct {
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	Action      string          `json:"action" validate:"required"`
	Description string          `json:"description" validate:"required,min=20,max=300"`
	ProviderID  *string         `json:"provider_id" validate:"omitempty,uuid"`
}

// DischargeRequest body para PATCH /api/v1/products/:id/discharge (acciones EGRESO, VENTA, VARIOS).
type DischargeRequest struct {
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	Action      string          `json:"action" validate:"required"`
	Description string          `json:"description" validate:"required,min=20,max=300"`
	ClientID    *string         `json:"client_id" validate:"omitempty,uuid"`
}

// ActionResponse acción de historial: clave y valor persistido.
type ActionResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HistorialListQuery filtros de GET /api/v1/historial.
type HistorialListQuery struct {
	PageRequest
	ProductName       string `query:"product_name"`
	ProductID         string `query:"product_id" validate:"omitempty,uuid"`
	ProviderID        string `query:"provider_id" validate:"omitempty,uuid"`
	ClientID          string `query:"client_id" validate:"omitempty,uuid"`
	ProductionOrderID string `query:"production_order_id" validate:"omitempty,uuid"`
	Action            string `query:"action"`
	From              string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To                string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// HistorialResponse fila del historial.
type HistorialResponse struct {
	ID                string          `json:"id"`
	Action            string          `json:"action"`
	ActionKey         string          `json:"action_key"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	Description       string          `json:"description"`
	ProductID         *string         `json:"product_id,omitempty"`
	ClientID          *string         `json:"client_id,omitempty"`
	ProviderID        *string         `json:"provider_id,omitempty"`
	ProductionOrderID *string         `json:"production_order_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// HistorialListResponse lista paginada del historial.
type HistorialListResponse struct {
	Items []HistorialResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// StockMovementResponse resultado de una carga o descarga.
type StockMovementResponse struct {
	Product   ProductResponse   `json:"product"`
	Historial HistorialResponse `json:"historial"`
}

// ToHistorialResponse convierte una fila del historial a su DTO.
func ToHistorialResponse(h *entity.Historial) HistorialResponse {
	return HistorialResponse{
		ID:                h.ID,
		Action:            string(h.Action),
		ActionKey:         h.Action.Key(),
		Cantidad:          h.Cantidad,
		Description:       h.Description,
		ProductID:         h.ProductID,
		ClientID:          h.ClientID,
		ProviderID:        h.ProviderID,
		ProductionOrderID: h.ProductionOrderID,
		CreatedAt:         h.CreatedAt,
	}
}

// ToActionResponses lista de acciones con su clave.
func ToActionResponses(actions []entity.HistorialAction) []ActionResponse {
	out := make([]ActionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionResponse{Key: a.Key(), Value: string(a)})
	}
	return out
}
