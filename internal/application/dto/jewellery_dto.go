package dto

// CreateJewelleryRequest entrada para crear una joya del catálogo.
// Quantity inicial cero: el agregado lo alimentan las unidades de stock.
type CreateJewelleryRequest struct {
	Type        string `json:"type" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	HSN         string `json:"hsn" validate:"omitempty,max=20"`
}

// UpdateJewelleryRequest entrada para actualizar una joya. La cantidad
// agregada no es editable por esta vía (la mantiene el ledger).
type UpdateJewelleryRequest struct {
	Type        *string `json:"type"`
	Description *string `json:"description"`
	HSN         *string `json:"hsn"`
}

// JewelleryResponse salida de una joya.
type JewelleryResponse struct {
	JewelleryID int64  `json:"jewellery_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	HSN         string `json:"hsn"`
	Quantity    int64  `json:"quantity"`
}
