package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockUnitRequest entrada para registrar una unidad física contra una joya.
type AddStockUnitRequest struct {
	JewelleryID int64            `json:"jewellery_id" validate:"required"`
	ModelNo     string           `json:"model_no" validate:"required,max=50"`
	UnitID      int64            `json:"unit_id" validate:"required"`
	Quantity    int64            `json:"quantity" validate:"min=0"`
	Status      string           `json:"status" validate:"omitempty,oneof=Available Sold Reserved Damaged"`
	Weight      decimal.Decimal  `json:"weight"`
	Size        string           `json:"size"`
	SoldPrice   *decimal.Decimal `json:"sold_price"`
}

// UpdateStockUnitRequest entrada para actualizar atributos de una unidad
// (peso, talla, precio de venta). Cantidad y estado van por sus endpoints.
type UpdateStockUnitRequest struct {
	Weight    *decimal.Decimal `json:"weight"`
	Size      *string          `json:"size"`
	SoldPrice *decimal.Decimal `json:"sold_price"`
}

// SetQuantityRequest ajuste administrativo absoluto de cantidad.
type SetQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"min=0"`
}

// SetStatusRequest forzado manual de estado.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Available Sold Reserved Damaged"`
}

// StockUnitResponse salida de una unidad de stock con datos del catálogo.
type StockUnitResponse struct {
	JewelleryID int64            `json:"jewellery_id"`
	ModelNo     string           `json:"model_no"`
	UnitID      int64            `json:"unit_id"`
	Quantity    int64            `json:"quantity"`
	Status      string           `json:"status"`
	Weight      decimal.Decimal  `json:"weight"`
	Size        string           `json:"size"`
	SoldPrice   *decimal.Decimal `json:"sold_price,omitempty"`
	SoldAt      *time.Time       `json:"sold_at,omitempty"`
	Type        string           `json:"type,omitempty"`
	Description string           `json:"description,omitempty"`
}

// MovementResponse resultado de una operación del ledger.
type MovementResponse struct {
	PreviousQuantity int64  `json:"previous_quantity"`
	NewQuantity      int64  `json:"new_quantity"`
	NewStatus        string `json:"new_status"`
}

// StockMovementResponse entrada del log de auditoría del ledger.
type StockMovementResponse struct {
	ID                string    `json:"id"`
	JewelleryID       int64     `json:"jewellery_id"`
	ModelNo           string    `json:"model_no"`
	UnitID            int64     `json:"unit_id"`
	Kind              string    `json:"kind"`
	Delta             int64     `json:"delta"`
	ResultingQuantity int64     `json:"resulting_quantity"`
	ResultingStatus   string    `json:"resulting_status"`
	Reference         string    `json:"reference"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}
