package stock

import (
	"context"

	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger: la fila
// de la unidad, el agregado del catálogo y el registro de auditoría se
// escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		unitRepo repository.StockUnitRepository,
		jewelleryRepo repository.JewelleryRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
