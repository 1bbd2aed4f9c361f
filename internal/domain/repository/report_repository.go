package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySales ventas agregadas de un día.
type DailySales struct {
	Date       time.Time
	OrderCount int64
	TotalSales decimal.Decimal
}

// StatusCount conteo de unidades de stock por estado.
type StatusCount struct {
	Status string
	Count  int64
}

// StockSummary resumen de inventario para el dashboard.
type StockSummary struct {
	JewelleryCount     int64
	StockUnitCount     int64
	AvailableUnitCount int64
	StatusCounts       []StatusCount
}

// ReportRepository consultas de solo lectura para dashboard y reportes.
type ReportRepository interface {
	// SalesByDate ventas agrupadas por día, las últimas days fechas con pedidos.
	SalesByDate(days int) ([]DailySales, error)
	TodayOrderCount() (int64, error)
	// PendingPayments suma de saldos pendientes (total del pedido menos pagos registrados).
	PendingPayments() (decimal.Decimal, error)
	StockSummary() (*StockSummary, error)
}
