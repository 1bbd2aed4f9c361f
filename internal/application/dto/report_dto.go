package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySalesDTO ventas de un día.
type DailySalesDTO struct {
	Date       time.Time       `json:"date"`
	OrderCount int64           `json:"order_count"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// SalesDashboardResponse resumen de ventas para el dashboard.
type SalesDashboardResponse struct {
	RecentSales     []DailySalesDTO `json:"recent_sales"`
	TodayOrders     int64           `json:"today_orders"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	TotalSales      decimal.Decimal `json:"total_sales"`
}

// StatusCountDTO conteo de unidades por estado.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StockSummaryResponse resumen de inventario.
type StockSummaryResponse struct {
	JewelleryCount     int64            `json:"jewellery_count"`
	StockUnitCount     int64            `json:"stock_unit_count"`
	AvailableUnitCount int64            `json:"available_unit_count"`
	StatusCounts       []StatusCountDTO `json:"status_counts"`
}
