package reports

import (
	"context"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
)

// SalesPDFGenerator genera la representación PDF del reporte de ventas.
// Implementado en infrastructure/pdf con Maroto.
type SalesPDFGenerator interface {
	GenerateSalesReportPDF(ctx context.Context, dashboard *dto.SalesDashboardResponse, summary *dto.StockSummaryResponse) ([]byte, error)
}
