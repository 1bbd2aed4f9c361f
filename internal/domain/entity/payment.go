package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de pago aceptados.
const (
	PaymentModeCash = "Cash"
	PaymentModeCard = "Card"
	PaymentModeUPI  = "UPI"
)

// Payment representa un pago (posiblemente parcial) contra un pedido.
type Payment struct {
	PaymentID   int64
	OrderID     int64
	Amount      decimal.Decimal
	Mode        string
	PaymentDate time.Time
}
