package repository

import (
	"time"

	"github.com/jhoicas/joyeria-api/internal/domain/entity"
)

// StockUnitRow una unidad de stock junto con los datos del catálogo (JOIN con jewellery).
type StockUnitRow struct {
	entity.StockUnit
	Type        string
	Description string
}

// StockUnitRepository define el puerto para las unidades físicas de stock.
// Las mutaciones de Quantity/Status pasan exclusivamente por el ledger de
// stock; este puerto se usa dentro de transacciones para garantizar
// consistencia.
type StockUnitRepository interface {
	Get(key entity.StockUnitKey) (*entity.StockUnit, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(key entity.StockUnitKey) (*entity.StockUnit, error)
	Insert(unit *entity.StockUnit) error
	// UpdateQuantityStatus escribe cantidad y estado (y sold_at) de una unidad.
	UpdateQuantityStatus(key entity.StockUnitKey, quantity int64, status string, soldAt *time.Time) error
	// UpdateAttributes actualiza peso, talla y precio de venta; no toca cantidad ni estado.
	UpdateAttributes(unit *entity.StockUnit) error
	Delete(key entity.StockUnitKey) error
	ListAll() ([]StockUnitRow, error)
	ListByJewellery(jewelleryID int64) ([]StockUnitRow, error)
	ListAvailable() ([]StockUnitRow, error)
}
