package usecase

import (
	"context"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/application/stock"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// StockUseCase expone las operaciones de stock: lecturas directas sobre el
// repositorio y mutaciones delegadas al ledger (único dueño de Quantity y
// Status).
type StockUseCase struct {
	ledger       *stock.Ledger
	unitRepo     repository.StockUnitRepository
	movementRepo repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	ledger *stock.Ledger,
	unitRepo repository.StockUnitRepository,
	movementRepo repository.StockMovementRepository,
) *StockUseCase {
	return &StockUseCase{ledger: ledger, unitRepo: unitRepo, movementRepo: movementRepo}
}

// Add registra una unidad física contra una joya existente (vía ledger: el
// agregado del catálogo sube en la cantidad inicial).
func (uc *StockUseCase) Add(ctx context.Context, in dto.AddStockUnitRequest, createdBy string) error {
	if in.Status != "" && !entity.ValidStatus(in.Status) {
		return domain.ErrInvalidInput
	}
	unit := &entity.StockUnit{
		JewelleryID: in.JewelleryID,
		ModelNo:     in.ModelNo,
		UnitID:      in.UnitID,
		Quantity:    in.Quantity,
		Status:      in.Status,
		Weight:      in.Weight,
		Size:        in.Size,
		SoldPrice:   in.SoldPrice,
	}
	return uc.ledger.AddUnit(ctx, unit, createdBy)
}

// GetByKey obtiene una unidad por su clave compuesta.
func (uc *StockUseCase) GetByKey(key entity.StockUnitKey) (*dto.StockUnitResponse, error) {
	unit, err := uc.unitRepo.Get(key)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return toStockUnitResponse(unit, "", ""), nil
}

// ListAll lista todas las unidades con datos del catálogo.
func (uc *StockUseCase) ListAll() ([]dto.StockUnitResponse, error) {
	rows, err := uc.unitRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return toStockUnitResponses(rows), nil
}

// ListByJewellery lista las unidades de una joya.
func (uc *StockUseCase) ListByJewellery(jewelleryID int64) ([]dto.StockUnitResponse, error) {
	rows, err := uc.unitRepo.ListByJewellery(jewelleryID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return toStockUnitResponses(rows), nil
}

// ListAvailable lista las unidades en estado Available.
func (uc *StockUseCase) ListAvailable() ([]dto.StockUnitResponse, error) {
	rows, err := uc.unitRepo.ListAvailable()
	if err != nil {
		return nil, err
	}
	return toStockUnitResponses(rows), nil
}

// UpdateAttributes actualiza peso, talla y precio de venta de una unidad.
// No toca cantidad ni estado: eso va por SetQuantity/SetStatus.
func (uc *StockUseCase) UpdateAttributes(key entity.StockUnitKey, in dto.UpdateStockUnitRequest) error {
	unit, err := uc.unitRepo.Get(key)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	if in.Weight != nil {
		unit.Weight = *in.Weight
	}
	if in.Size != nil {
		unit.Size = *in.Size
	}
	if in.SoldPrice != nil {
		unit.SoldPrice = in.SoldPrice
	}
	return uc.unitRepo.UpdateAttributes(unit)
}

// SetQuantity ajuste administrativo absoluto vía ledger.
func (uc *StockUseCase) SetQuantity(ctx context.Context, key entity.StockUnitKey, quantity int64, createdBy string) (*dto.MovementResponse, error) {
	mv, err := uc.ledger.SetQuantity(ctx, key, quantity, createdBy)
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mv), nil
}

// SetStatus forzado manual de estado vía ledger.
func (uc *StockUseCase) SetStatus(ctx context.Context, key entity.StockUnitKey, status, createdBy string) (*dto.MovementResponse, error) {
	mv, err := uc.ledger.SetStatus(ctx, key, status, createdBy)
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mv), nil
}

// Remove da de baja una unidad vía ledger.
func (uc *StockUseCase) Remove(ctx context.Context, key entity.StockUnitKey, createdBy string) error {
	return uc.ledger.RemoveUnit(ctx, key, createdBy)
}

// History devuelve los últimos movimientos del ledger para una unidad.
func (uc *StockUseCase) History(key entity.StockUnitKey, limit int) ([]dto.StockMovementResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	movs, err := uc.movementRepo.ListByUnit(key, limit)
	if err != nil {
		return nil, err
	}
	list := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		list = append(list, dto.StockMovementResponse{
			ID:                m.ID,
			JewelleryID:       m.JewelleryID,
			ModelNo:           m.ModelNo,
			UnitID:            m.UnitID,
			Kind:              m.Kind,
			Delta:             m.Delta,
			ResultingQuantity: m.ResultingQuantity,
			ResultingStatus:   m.ResultingStatus,
			Reference:         m.Reference,
			CreatedBy:         m.CreatedBy,
			CreatedAt:         m.CreatedAt,
		})
	}
	return list, nil
}

func toStockUnitResponses(rows []repository.StockUnitRow) []dto.StockUnitResponse {
	list := make([]dto.StockUnitResponse, 0, len(rows))
	for i := range rows {
		list = append(list, *toStockUnitResponse(&rows[i].StockUnit, rows[i].Type, rows[i].Description))
	}
	return list
}

func toStockUnitResponse(u *entity.StockUnit, jewelleryType, description string) *dto.StockUnitResponse {
	return &dto.StockUnitResponse{
		JewelleryID: u.JewelleryID,
		ModelNo:     u.ModelNo,
		UnitID:      u.UnitID,
		Quantity:    u.Quantity,
		Status:      u.Status,
		Weight:      u.Weight,
		Size:        u.Size,
		SoldPrice:   u.SoldPrice,
		SoldAt:      u.SoldAt,
		Type:        jewelleryType,
		Description: description,
	}
}

func toMovementResponse(mv *stock.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		PreviousQuantity: mv.PreviousQuantity,
		NewQuantity:      mv.NewQuantity,
		NewStatus:        mv.NewStatus,
	}
}
