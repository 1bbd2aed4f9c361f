package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest entrada para registrar un pago contra un pedido.
type CreatePaymentRequest struct {
	OrderID     int64           `json:"order_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Mode        string          `json:"mode" validate:"required,oneof=Cash Card UPI"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// UpdatePaymentRequest entrada para actualizar un pago.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Mode        *string          `json:"mode"`
	PaymentDate *time.Time       `json:"payment_date"`
}

// PaymentResponse salida de un pago con el cliente del pedido.
type PaymentResponse struct {
	PaymentID   int64           `json:"payment_id"`
	OrderID     int64           `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode"`
	PaymentDate time.Time       `json:"payment_date"`
	CustID      int64           `json:"cust_id,omitempty"`
	CustName    string          `json:"cust_name,omitempty"`
}

// OrderBalanceResponse saldo pendiente de un pedido.
type OrderBalanceResponse struct {
	OrderID    int64           `json:"order_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	Pending    decimal.Decimal `json:"pending"`
}
