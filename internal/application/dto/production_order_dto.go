package dto

import "time"

// CreateProductionOrderRequest body para POST /api/v1/production-orders.
type CreateProductionOrderRequest struct {
	ProductID                 string `json:"product_id" validate:"required,uuid"`
	CantidadProductoFabricado int    `json:"cantidad_producto_fabricado" validate:"gt=0"`
	EndDate                   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Responsables              string `json:"responsables" validate:"required,min=10,max=400"`
}

// UpdateProductionOrderRequest body para PUT /api/v1/production-orders/:id. Solo en estado Por iniciar.
type UpdateProductionOrderRequest struct {
	CantidadProductoFabricado *int    `json:"cantidad_producto_fabricado" validate:"omitempty,gt=0"`
	EndDate                   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Responsables              *string `json:"responsables" validate:"omitempty,min=10,max=400"`
}

// ChangeOrderStateRequest body para PATCH /api/v1/production-orders/:id/state.
// Acepta la clave (EnProceso) o el valor (En proceso).
type ChangeOrderStateRequest struct {
	OrderState string `json:"order_state" validate:"required"`
}

// ProductionOrderListQuery filtros de GET /api/v1/production-orders.
type ProductionOrderListQuery struct {
	PageRequest
	ProductName string `query:"product_name"`
	OrderState  string `query:"order_state"`
	StartDate   string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	RealEndDate string `query:"real_end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ProductionOrderResponse salida de una orden de producción.
type ProductionOrderResponse struct {
	ID                        string     `json:"id"`
	ProductID                 string     `json:"product_id"`
	ProductCodigo             string     `json:"product_codigo,omitempty"`
	ProductNombre             string     `json:"product_nombre,omitempty"`
	CantidadProductoFabricado int        `json:"cantidad_producto_fabricado"`
	OrderState                string     `json:"order_state"`
	StartDate                 *time.Time `json:"start_date"`
	EndDate                   time.Time  `json:"end_date"`
	RealEndDate               *time.Time `json:"real_end_date"`
	Responsables              string     `json:"responsables"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

// ProductionOrderListResponse lista paginada de órdenes.
type ProductionOrderListResponse struct {
	Items []ProductionOrderResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
