package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para dashboard y reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesByDate ventas agrupadas por día, las últimas days fechas con pedidos.
func (r *ReportRepo) SalesByDate(days int) ([]repository.DailySales, error) {
	query := `
		SELECT order_date::date AS day, COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS total_sales
		FROM orders
		GROUP BY day
		ORDER BY day DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, days)
	if err != nil {
		return nil, fmt.Errorf("sales by date: %w", err)
	}
	defer rows.Close()
	var list []repository.DailySales
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Date, &d.OrderCount, &d.TotalSales); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// TodayOrderCount cuenta los pedidos con fecha de hoy.
func (r *ReportRepo) TodayOrderCount() (int64, error) {
	var count int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM orders WHERE order_date::date = CURRENT_DATE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("today order count: %w", err)
	}
	return count, nil
}

// PendingPayments suma de saldos pendientes: total de cada pedido menos sus pagos.
func (r *ReportRepo) PendingPayments() (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(o.total_price - COALESCE(p.paid, 0)), 0)
		FROM orders o
		LEFT JOIN (
			SELECT order_id, SUM(amount) AS paid FROM payments GROUP BY order_id
		) p ON p.order_id = o.order_id
		WHERE o.total_price > COALESCE(p.paid, 0)`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pending payments: %w", err)
	}
	return total, nil
}

// StockSummary resumen de inventario para el dashboard.
func (r *ReportRepo) StockSummary() (*repository.StockSummary, error) {
	var s repository.StockSummary
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM jewellery`).Scan(&s.JewelleryCount)
	if err != nil {
		return nil, fmt.Errorf("stock summary (jewellery count): %w", err)
	}
	err = r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM stock_units`).Scan(&s.StockUnitCount)
	if err != nil {
		return nil, fmt.Errorf("stock summary (unit count): %w", err)
	}
	err = r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_units WHERE status = 'Available'`).Scan(&s.AvailableUnitCount)
	if err != nil {
		return nil, fmt.Errorf("stock summary (available count): %w", err)
	}

	rows, err := r.q.Query(context.Background(),
		`SELECT status, COUNT(*) FROM stock_units GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("stock summary (status counts): %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc repository.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		s.StatusCounts = append(s.StatusCounts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}
