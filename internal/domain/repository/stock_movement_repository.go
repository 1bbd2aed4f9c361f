package repository

import "github.com/jhoicas/joyeria-api/internal/domain/entity"

// StockMovementRepository define el puerto para el log de auditoría del ledger.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	ListByUnit(key entity.StockUnitKey, limit int) ([]*entity.StockMovement, error)
}
