package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos de una unidad de stock.
// Available y Sold se derivan de la cantidad; Reserved y Damaged son estados
// impuestos manualmente que suspenden la derivación hasta el siguiente
// movimiento de cantidad.
const (
	StatusAvailable = "Available"
	StatusSold      = "Sold"
	StatusReserved  = "Reserved"
	StatusDamaged   = "Damaged"
)

// ValidStatus indica si s es un estado reconocido.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusSold, StatusReserved, StatusDamaged:
		return true
	}
	return false
}

// DeriveStatus calcula el estado a partir de la cantidad: Sold si <= 0,
// Available en caso contrario.
func DeriveStatus(quantity int64) string {
	if quantity <= 0 {
		return StatusSold
	}
	return StatusAvailable
}

// StockUnitKey clave compuesta que identifica una unidad física.
type StockUnitKey struct {
	JewelleryID int64
	ModelNo     string
	UnitID      int64
}

// StockUnit representa una unidad física rastreable de una joya del catálogo.
// Invariante: Status == Sold ⇔ Quantity <= 0, salvo Reserved/Damaged.
type StockUnit struct {
	JewelleryID int64
	ModelNo     string
	UnitID      int64
	Quantity    int64
	Status      string
	Weight      decimal.Decimal
	Size        string
	SoldPrice   *decimal.Decimal
	SoldAt      *time.Time
}

// Key devuelve la clave compuesta de la unidad.
func (u *StockUnit) Key() StockUnitKey {
	return StockUnitKey{JewelleryID: u.JewelleryID, ModelNo: u.ModelNo, UnitID: u.UnitID}
}
