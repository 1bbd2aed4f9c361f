package orders

import (
	"context"

	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de pedidos y de stock atados a esa tx. La cabecera del pedido,
// sus N líneas y las N operaciones del ledger comparten una única
// transacción: si la línea k falla, se revierten las líneas 1..k-1 y la
// cabecera.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		unitRepo repository.StockUnitRepository,
		jewelleryRepo repository.JewelleryRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
