package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderDetailRequest una línea de pedido contra una unidad física concreta.
type OrderDetailRequest struct {
	JewelleryID int64           `json:"jewellery_id" validate:"required"`
	ModelNo     string          `json:"model_no" validate:"required"`
	UnitID      int64           `json:"unit_id" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,min=1"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateOrderRequest entrada para crear un pedido con sus líneas.
// OrderID opcional: cero delega la asignación al servidor.
type CreateOrderRequest struct {
	OrderID    int64                `json:"order_id"`
	CustID     int64                `json:"cust_id" validate:"required"`
	OrderDate  *time.Time           `json:"order_date"`
	TotalPrice decimal.Decimal      `json:"total_price"`
	Details    []OrderDetailRequest `json:"details"`
}

// UpdateOrderRequest entrada para editar un pedido. Las líneas existentes se
// liberan y las nuevas se reservan dentro de la misma transacción.
type UpdateOrderRequest struct {
	CustID     int64                `json:"cust_id" validate:"required"`
	OrderDate  *time.Time           `json:"order_date"`
	TotalPrice decimal.Decimal      `json:"total_price"`
	Details    []OrderDetailRequest `json:"details"`
}

// OrderDetailResponse salida de una línea con datos del catálogo.
type OrderDetailResponse struct {
	OrderID     int64           `json:"order_id"`
	JewelleryID int64           `json:"jewellery_id"`
	ModelNo     string          `json:"model_no"`
	UnitID      int64           `json:"unit_id"`
	Quantity    int64           `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	OrderID    int64                 `json:"order_id"`
	CustID     int64                 `json:"cust_id"`
	CustName   string                `json:"cust_name"`
	OrderDate  time.Time             `json:"order_date"`
	TotalPrice decimal.Decimal       `json:"total_price"`
	Details    []OrderDetailResponse `json:"details,omitempty"`
}
