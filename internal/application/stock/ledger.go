package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// Movement resultado de una operación del ledger sobre una unidad.
type Movement struct {
	PreviousQuantity int64
	NewQuantity      int64
	NewStatus        string
}

// Ledger es el único punto de mutación de StockUnit.Quantity/Status y del
// agregado Jewellery.Quantity. Cada operación bloquea la fila de la unidad
// (SELECT FOR UPDATE), recalcula el estado a partir de la cantidad
// (Sold si <= 0, Available si > 0), aplica el delta al agregado del catálogo
// y deja un registro de auditoría, todo en una sola transacción.
//
// Las variantes ...InTx operan sobre repositorios ya atados a una transacción
// del caller (pedidos con varias líneas); las variantes públicas abren su
// propia transacción vía TxRunner. Ninguna operación reintenta internamente:
// ante cualquier error la transacción se aborta y el error tipado se propaga.
type Ledger struct {
	txRunner TxRunner
}

// NewLedger construye el ledger.
func NewLedger(txRunner TxRunner) *Ledger {
	return &Ledger{txRunner: txRunner}
}

// Reserve descuenta qty unidades para satisfacer una línea de pedido.
// Rechaza con ErrInsufficientStock si la cantidad disponible no alcanza;
// nunca deja la cantidad en negativo.
func (l *Ledger) Reserve(ctx context.Context, key entity.StockUnitKey, qty int64, reference, createdBy string) (*Movement, error) {
	return l.run(ctx, func(units repository.StockUnitRepository, jewels repository.JewelleryRepository, movs repository.StockMovementRepository) (*Movement, error) {
		return l.ReserveInTx(units, jewels, movs, key, qty, reference, createdBy)
	})
}

// Release devuelve qty unidades (edición o cancelación de pedido). Inversa de
// Reserve; sin tope superior, en este dominio no hay capacidad máxima.
func (l *Ledger) Release(ctx context.Context, key entity.StockUnitKey, qty int64, reference, createdBy string) (*Movement, error) {
	return l.run(ctx, func(units repository.StockUnitRepository, jewels repository.JewelleryRepository, movs repository.StockMovementRepository) (*Movement, error) {
		return l.ReleaseInTx(units, jewels, movs, key, qty, reference, createdBy)
	})
}

// SetQuantity ajuste administrativo absoluto de la cantidad de una unidad.
func (l *Ledger) SetQuantity(ctx context.Context, key entity.StockUnitKey, newQuantity int64, createdBy string) (*Movement, error) {
	return l.run(ctx, func(units repository.StockUnitRepository, jewels repository.JewelleryRepository, movs repository.StockMovementRepository) (*Movement, error) {
		return l.setQuantityInTx(units, jewels, movs, key, newQuantity, createdBy)
	})
}

// SetStatus forzado manual del estado. Es la única operación donde la
// cantidad se ajusta para satisfacer el estado pedido y no al revés:
// Available sobre una unidad agotada fuerza cantidad 1; Sold sobre una unidad
// con existencias fuerza cantidad 0; Reserved y Damaged no tocan la cantidad.
func (l *Ledger) SetStatus(ctx context.Context, key entity.StockUnitKey, newStatus, createdBy string) (*Movement, error) {
	return l.run(ctx, func(units repository.StockUnitRepository, jewels repository.JewelleryRepository, movs repository.StockMovementRepository) (*Movement, error) {
		return l.setStatusInTx(units, jewels, movs, key, newStatus, createdBy)
	})
}

// RemoveUnit da de baja una unidad: primero revierte su aporte al agregado y
// después elimina la fila, en la misma transacción.
func (l *Ledger) RemoveUnit(ctx context.Context, key entity.StockUnitKey, createdBy string) error {
	_, err := l.run(ctx, func(units repository.StockUnitRepository, jewels repository.JewelleryRepository, movs repository.StockMovementRepository) (*Movement, error) {
		return l.removeUnitInTx(units, jewels, movs, key, createdBy)
	})
	return err
}

// AddUnit registra una nueva unidad contra una joya existente. El estado se
// deriva de la cantidad salvo que se pida Reserved o Damaged; el agregado del
// catálogo sube en la cantidad inicial.
func (l *Ledger) AddUnit(ctx context.Context, unit *entity.StockUnit, createdBy string) error {
	_, err := l.run(ctx, func(units repository.StockUnitRepository, jewels repository.JewelleryRepository, movs repository.StockMovementRepository) (*Movement, error) {
		return l.addUnitInTx(units, jewels, movs, unit, createdBy)
	})
	return err
}

func (l *Ledger) run(ctx context.Context, fn func(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
) (*Movement, error)) (*Movement, error) {
	var mv *Movement
	err := l.txRunner.Run(ctx, func(
		unitRepo repository.StockUnitRepository,
		jewelleryRepo repository.JewelleryRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		m, err := fn(unitRepo, jewelleryRepo, movementRepo)
		if err != nil {
			return err
		}
		mv = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// ReserveInTx ejecuta una reserva usando los repositorios proporcionados
// (misma transacción del caller). Lo usa el caso de uso de pedidos para que
// las N líneas de un pedido y su cabecera compartan una única transacción.
func (l *Ledger) ReserveInTx(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	key entity.StockUnitKey,
	qty int64,
	reference, createdBy string,
) (*Movement, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	unit, err := units.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	if unit.Quantity < qty {
		return nil, domain.ErrInsufficientStock
	}
	return l.applyDelta(units, jewels, movs, unit, -qty, entity.MovementReserve, reference, createdBy)
}

// ReleaseInTx ejecuta una devolución usando los repositorios proporcionados
// (misma transacción del caller).
func (l *Ledger) ReleaseInTx(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	key entity.StockUnitKey,
	qty int64,
	reference, createdBy string,
) (*Movement, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	unit, err := units.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return l.applyDelta(units, jewels, movs, unit, qty, entity.MovementRelease, reference, createdBy)
}

// applyDelta aplica un delta a la unidad ya bloqueada: recalcula el estado,
// escribe la unidad, aplica el mismo delta al agregado y registra el
// movimiento. El sello sold_at se pone al entrar en Sold y se limpia al salir.
func (l *Ledger) applyDelta(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	unit *entity.StockUnit,
	delta int64,
	kind, reference, createdBy string,
) (*Movement, error) {
	prev := unit.Quantity
	newQty := prev + delta
	newStatus := entity.DeriveStatus(newQty)

	now := time.Now()
	soldAt := unit.SoldAt
	switch {
	case newStatus == entity.StatusSold && unit.Status != entity.StatusSold:
		soldAt = &now
	case newStatus == entity.StatusAvailable:
		soldAt = nil
	}

	key := unit.Key()
	if err := units.UpdateQuantityStatus(key, newQty, newStatus, soldAt); err != nil {
		return nil, err
	}
	if err := jewels.AdjustQuantity(key.JewelleryID, delta); err != nil {
		return nil, err
	}
	if err := movs.Create(&entity.StockMovement{
		ID:                uuid.New().String(),
		JewelleryID:       key.JewelleryID,
		ModelNo:           key.ModelNo,
		UnitID:            key.UnitID,
		Kind:              kind,
		Delta:             delta,
		ResultingQuantity: newQty,
		ResultingStatus:   newStatus,
		Reference:         reference,
		CreatedBy:         createdBy,
		CreatedAt:         now,
	}); err != nil {
		return nil, err
	}
	return &Movement{PreviousQuantity: prev, NewQuantity: newQty, NewStatus: newStatus}, nil
}

func (l *Ledger) setQuantityInTx(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	key entity.StockUnitKey,
	newQuantity int64,
	createdBy string,
) (*Movement, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	unit, err := units.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return l.applyDelta(units, jewels, movs, unit, newQuantity-unit.Quantity, entity.MovementSet, "admin", createdBy)
}

func (l *Ledger) setStatusInTx(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	key entity.StockUnitKey,
	newStatus, createdBy string,
) (*Movement, error) {
	if !entity.ValidStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	unit, err := units.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}

	prev := unit.Quantity
	newQty := prev
	switch newStatus {
	case entity.StatusAvailable:
		if prev <= 0 {
			newQty = 1
		}
	case entity.StatusSold:
		if prev > 0 {
			newQty = 0
		}
	}
	// Reserved y Damaged suspenden la derivación: cantidad intacta.

	now := time.Now()
	soldAt := unit.SoldAt
	switch {
	case newStatus == entity.StatusSold && unit.Status != entity.StatusSold:
		soldAt = &now
	case newStatus == entity.StatusAvailable:
		soldAt = nil
	}

	if err := units.UpdateQuantityStatus(key, newQty, newStatus, soldAt); err != nil {
		return nil, err
	}
	if delta := newQty - prev; delta != 0 {
		if err := jewels.AdjustQuantity(key.JewelleryID, delta); err != nil {
			return nil, err
		}
	}
	if err := movs.Create(&entity.StockMovement{
		ID:                uuid.New().String(),
		JewelleryID:       key.JewelleryID,
		ModelNo:           key.ModelNo,
		UnitID:            key.UnitID,
		Kind:              entity.MovementSet,
		Delta:             newQty - prev,
		ResultingQuantity: newQty,
		ResultingStatus:   newStatus,
		Reference:         "admin",
		CreatedBy:         createdBy,
		CreatedAt:         now,
	}); err != nil {
		return nil, err
	}
	return &Movement{PreviousQuantity: prev, NewQuantity: newQty, NewStatus: newStatus}, nil
}

func (l *Ledger) removeUnitInTx(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	key entity.StockUnitKey,
	createdBy string,
) (*Movement, error) {
	unit, err := units.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	if unit.Quantity != 0 {
		if err := jewels.AdjustQuantity(key.JewelleryID, -unit.Quantity); err != nil {
			return nil, err
		}
	}
	if err := units.Delete(key); err != nil {
		return nil, err
	}
	if err := movs.Create(&entity.StockMovement{
		ID:                uuid.New().String(),
		JewelleryID:       key.JewelleryID,
		ModelNo:           key.ModelNo,
		UnitID:            key.UnitID,
		Kind:              entity.MovementRemove,
		Delta:             -unit.Quantity,
		ResultingQuantity: 0,
		ResultingStatus:   unit.Status,
		Reference:         "admin",
		CreatedBy:         createdBy,
		CreatedAt:         time.Now(),
	}); err != nil {
		return nil, err
	}
	return &Movement{PreviousQuantity: unit.Quantity, NewQuantity: 0, NewStatus: unit.Status}, nil
}

func (l *Ledger) addUnitInTx(
	units repository.StockUnitRepository,
	jewels repository.JewelleryRepository,
	movs repository.StockMovementRepository,
	unit *entity.StockUnit,
	createdBy string,
) (*Movement, error) {
	if unit.Quantity < 0 || unit.ModelNo == "" {
		return nil, domain.ErrInvalidInput
	}
	// La unidad solo puede crearse contra una joya existente del catálogo.
	parent, err := jewels.GetByID(unit.JewelleryID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	switch unit.Status {
	case entity.StatusReserved, entity.StatusDamaged:
		// estados impuestos manualmente, se respetan
	default:
		unit.Status = entity.DeriveStatus(unit.Quantity)
	}
	if err := units.Insert(unit); err != nil {
		return nil, err
	}
	if unit.Quantity != 0 {
		if err := jewels.AdjustQuantity(unit.JewelleryID, unit.Quantity); err != nil {
			return nil, err
		}
	}
	if err := movs.Create(&entity.StockMovement{
		ID:                uuid.New().String(),
		JewelleryID:       unit.JewelleryID,
		ModelNo:           unit.ModelNo,
		UnitID:            unit.UnitID,
		Kind:              entity.MovementCreate,
		Delta:             unit.Quantity,
		ResultingQuantity: unit.Quantity,
		ResultingStatus:   unit.Status,
		Reference:         "admin",
		CreatedBy:         createdBy,
		CreatedAt:         time.Now(),
	}); err != nil {
		return nil, err
	}
	return &Movement{PreviousQuantity: 0, NewQuantity: unit.Quantity, NewStatus: unit.Status}, nil
}
