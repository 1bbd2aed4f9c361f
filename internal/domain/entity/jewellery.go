package entity

// Jewellery representa un tipo/SKU de joya del catálogo.
// Quantity es el agregado: suma de las cantidades de sus unidades físicas
// (Linked Stock). Solo el ledger de stock puede modificarlo; los CRUD del
// catálogo no tocan este campo.
type Jewellery struct {
	JewelleryID int64
	Type        string
	Description string
	HSN         string // código fiscal HSN
	Quantity    int64  // agregado mantenido por deltas, >= 0 tras cada commit
}
