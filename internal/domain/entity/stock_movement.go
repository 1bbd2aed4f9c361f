package entity

import "time"

// Tipos de movimiento del ledger de stock.
const (
	MovementCreate  = "create"  // alta de la unidad
	MovementReserve = "reserve" // salida por pedido
	MovementRelease = "release" // devolución por edición/cancelación de pedido
	MovementSet     = "set"     // ajuste administrativo absoluto
	MovementRemove  = "remove"  // baja de la unidad
)

// StockMovement registra cada mutación del ledger para auditoría. Se escribe
// en la misma transacción que la mutación de la unidad y del agregado.
type StockMovement struct {
	ID                string // UUID
	JewelleryID       int64
	ModelNo           string
	UnitID            int64
	Kind              string // reserve, release, set, remove
	Delta             int64  // cambio aplicado a la cantidad de la unidad
	ResultingQuantity int64
	ResultingStatus   string
	Reference         string // ej. "order:42" o "admin"
	CreatedBy         string
	CreatedAt         time.Time
}
