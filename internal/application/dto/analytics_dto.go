package dto

import "github.com/shopspring/decimal"

// MonthlyOrdersDTO órdenes ejecutadas en un mes del año en curso.
type MonthlyOrdersDTO struct {
	Month int    `json:"month"` // 1-12
	Label string `json:"label"` // "Ene", "Feb", ...
	Count int    `json:"count"`
}

// ProductUsageDTO total acumulado de un producto (consumo o ventas).
type ProductUsageDTO struct {
	ProductID string          `json:"product_id"`
	Codigo    string          `json:"codigo"`
	Nombre    string          `json:"nombre"`
	Total     decimal.Decimal `json:"total"`
}

// StatisticsResponse respuesta de GET /api/v1/statistics.
type StatisticsResponse struct {
	Year             int                `json:"year"`
	MonthlyOrders    []MonthlyOrdersDTO `json:"monthly_orders"`
	MostUsedProducts []ProductUsageDTO  `json:"most_used_products"`
	TopSalesProducts []ProductUsageDTO  `json:"top_sales_products"`
}
