package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order representa un pedido de un cliente.
type Order struct {
	OrderID    int64
	CustID     int64
	OrderDate  time.Time
	TotalPrice decimal.Decimal
	Details    []OrderDetail
}

// OrderDetail es una línea del pedido: referencia una unidad física concreta
// (joya + modelo + unidad) y la cantidad reservada de ella.
type OrderDetail struct {
	OrderID     int64
	JewelleryID int64
	ModelNo     string
	UnitID      int64
	Quantity    int64
	Amount      decimal.Decimal
	Date        time.Time
}
