package reports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// Días de histórico del dashboard de ventas.
const salesWindowDays = 7

// ReportUseCase consultas de solo lectura para el dashboard y reportes.
type ReportUseCase struct {
	repo repository.ReportRepository
	pdf  SalesPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository, pdf SalesPDFGenerator) *ReportUseCase {
	return &ReportUseCase{repo: repo, pdf: pdf}
}

// SalesDashboard ventas de los últimos días, pedidos de hoy y saldo pendiente.
func (uc *ReportUseCase) SalesDashboard() (*dto.SalesDashboardResponse, error) {
	sales, err := uc.repo.SalesByDate(salesWindowDays)
	if err != nil {
		return nil, err
	}
	todayOrders, err := uc.repo.TodayOrderCount()
	if err != nil {
		return nil, err
	}
	pending, err := uc.repo.PendingPayments()
	if err != nil {
		return nil, err
	}

	recent := make([]dto.DailySalesDTO, 0, len(sales))
	total := decimal.Zero
	for _, s := range sales {
		recent = append(recent, dto.DailySalesDTO{
			Date:       s.Date,
			OrderCount: s.OrderCount,
			TotalSales: s.TotalSales,
		})
		total = total.Add(s.TotalSales)
	}
	return &dto.SalesDashboardResponse{
		RecentSales:     recent,
		TodayOrders:     todayOrders,
		PendingPayments: pending,
		TotalSales:      total,
	}, nil
}

// StockSummary resumen de inventario (conteos por estado).
func (uc *ReportUseCase) StockSummary() (*dto.StockSummaryResponse, error) {
	summary, err := uc.repo.StockSummary()
	if err != nil {
		return nil, err
	}
	counts := make([]dto.StatusCountDTO, 0, len(summary.StatusCounts))
	for _, c := range summary.StatusCounts {
		counts = append(counts, dto.StatusCountDTO{Status: c.Status, Count: c.Count})
	}
	return &dto.StockSummaryResponse{
		JewelleryCount:     summary.JewelleryCount,
		StockUnitCount:     summary.StockUnitCount,
		AvailableUnitCount: summary.AvailableUnitCount,
		StatusCounts:       counts,
	}, nil
}

// SalesReportPDF genera el reporte de ventas en PDF (dashboard + inventario).
func (uc *ReportUseCase) SalesReportPDF(ctx context.Context) ([]byte, error) {
	dashboard, err := uc.SalesDashboard()
	if err != nil {
		return nil, err
	}
	summary, err := uc.StockSummary()
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateSalesReportPDF(ctx, dashboard, summary)
}
