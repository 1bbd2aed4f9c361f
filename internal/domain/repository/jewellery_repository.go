package repository

import "github.com/jhoicas/joyeria-api/internal/domain/entity"

// JewelleryRepository define el puerto para el catálogo de joyas.
// AdjustQuantity es la única vía de mutación del agregado Quantity y solo la
// invoca el ledger de stock dentro de una transacción.
type JewelleryRepository interface {
	GetByID(id int64) (*entity.Jewellery, error)
	List() ([]*entity.Jewellery, error)
	NextID() (int64, error)
	Create(j *entity.Jewellery) error
	// Update actualiza tipo, descripción y HSN. No toca Quantity.
	Update(j *entity.Jewellery) error
	Delete(id int64) error
	// AdjustQuantity aplica un delta relativo al agregado (UPDATE ... SET quantity = quantity + delta).
	AdjustQuantity(id int64, delta int64) error
}
