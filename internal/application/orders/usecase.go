package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/application/stock"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// OrderUseCase gestiona pedidos y sus líneas. Toda reserva o devolución de
// stock pasa por el ledger dentro de la misma transacción que la cabecera.
// Ante un fallo de serialización (ErrConflict) la transacción completa se
// reintenta una sola vez y después se propaga el error.
type OrderUseCase struct {
	txRunner     TxRunner
	ledger       *stock.Ledger
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	ledger *stock.Ledger,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
	}
}

// Create crea un pedido: inserta la cabecera y, por cada línea, la línea más
// la reserva en el ledger, todo en una transacción.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest, createdBy string) (int64, error) {
	if in.CustID == 0 {
		return 0, domain.ErrInvalidInput
	}
	for _, d := range in.Details {
		if d.Quantity <= 0 {
			return 0, domain.ErrInvalidInput
		}
	}
	customer, err := uc.customerRepo.GetByID(in.CustID)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, domain.ErrNotFound
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	var orderID int64
	err = uc.runWithRetry(ctx, func(
		orderRepo repository.OrderRepository,
		unitRepo repository.StockUnitRepository,
		jewelleryRepo repository.JewelleryRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		id := in.OrderID
		if id == 0 {
			next, err := orderRepo.NextID()
			if err != nil {
				return err
			}
			id = next
		}
		order := &entity.Order{
			OrderID:    id,
			CustID:     in.CustID,
			OrderDate:  orderDate,
			TotalPrice: in.TotalPrice,
		}
		if err := orderRepo.CreateHeader(order); err != nil {
			return err
		}
		reference := fmt.Sprintf("order:%d", id)
		for _, d := range in.Details {
			detail := &entity.OrderDetail{
				OrderID:     id,
				JewelleryID: d.JewelleryID,
				ModelNo:     d.ModelNo,
				UnitID:      d.UnitID,
				Quantity:    d.Quantity,
				Amount:      d.Amount,
				Date:        orderDate,
			}
			if err := orderRepo.CreateDetail(detail); err != nil {
				return err
			}
			key := entity.StockUnitKey{JewelleryID: d.JewelleryID, ModelNo: d.ModelNo, UnitID: d.UnitID}
			if _, err := uc.ledger.ReserveInTx(unitRepo, jewelleryRepo, movementRepo, key, d.Quantity, reference, createdBy); err != nil {
				return err
			}
		}
		orderID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// Update edita un pedido: libera las líneas existentes, reemplaza cabecera y
// líneas, y reserva las nuevas, todo en una transacción.
func (uc *OrderUseCase) Update(ctx context.Context, orderID int64, in dto.UpdateOrderRequest, createdBy string) error {
	if in.CustID == 0 {
		return domain.ErrInvalidInput
	}
	for _, d := range in.Details {
		if d.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	return uc.runWithRetry(ctx, func(
		orderRepo repository.OrderRepository,
		unitRepo repository.StockUnitRepository,
		jewelleryRepo repository.JewelleryRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		existing, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		reference := fmt.Sprintf("order:%d", orderID)

		// Liberar las líneas anteriores antes de reservar las nuevas.
		oldDetails, err := orderRepo.GetDetails(orderID)
		if err != nil {
			return err
		}
		for _, d := range oldDetails {
			key := entity.StockUnitKey{JewelleryID: d.JewelleryID, ModelNo: d.ModelNo, UnitID: d.UnitID}
			if _, err := uc.ledger.ReleaseInTx(unitRepo, jewelleryRepo, movementRepo, key, d.Quantity, reference, createdBy); err != nil {
				return err
			}
		}
		if err := orderRepo.DeleteDetails(orderID); err != nil {
			return err
		}

		order := &entity.Order{
			OrderID:    orderID,
			CustID:     in.CustID,
			OrderDate:  orderDate,
			TotalPrice: in.TotalPrice,
		}
		if err := orderRepo.UpdateHeader(order); err != nil {
			return err
		}
		for _, d := range in.Details {
			detail := &entity.OrderDetail{
				OrderID:     orderID,
				JewelleryID: d.JewelleryID,
				ModelNo:     d.ModelNo,
				UnitID:      d.UnitID,
				Quantity:    d.Quantity,
				Amount:      d.Amount,
				Date:        orderDate,
			}
			if err := orderRepo.CreateDetail(detail); err != nil {
				return err
			}
			key := entity.StockUnitKey{JewelleryID: d.JewelleryID, ModelNo: d.ModelNo, UnitID: d.UnitID}
			if _, err := uc.ledger.ReserveInTx(unitRepo, jewelleryRepo, movementRepo, key, d.Quantity, reference, createdBy); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete cancela un pedido: devuelve el stock de cada línea y elimina líneas
// y cabecera en una transacción.
func (uc *OrderUseCase) Delete(ctx context.Context, orderID int64, createdBy string) error {
	return uc.runWithRetry(ctx, func(
		orderRepo repository.OrderRepository,
		unitRepo repository.StockUnitRepository,
		jewelleryRepo repository.JewelleryRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		existing, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		reference := fmt.Sprintf("order:%d", orderID)

		details, err := orderRepo.GetDetails(orderID)
		if err != nil {
			return err
		}
		for _, d := range details {
			key := entity.StockUnitKey{JewelleryID: d.JewelleryID, ModelNo: d.ModelNo, UnitID: d.UnitID}
			if _, err := uc.ledger.ReleaseInTx(unitRepo, jewelleryRepo, movementRepo, key, d.Quantity, reference, createdBy); err != nil {
				return err
			}
		}
		if err := orderRepo.DeleteDetails(orderID); err != nil {
			return err
		}
		return orderRepo.Delete(orderID)
	})
}

// GetByID obtiene un pedido con sus líneas.
func (uc *OrderUseCase) GetByID(orderID int64) (*dto.OrderResponse, error) {
	row, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.orderRepo.GetDetails(orderID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(row)
	for _, d := range details {
		resp.Details = append(resp.Details, dto.OrderDetailResponse{
			OrderID:     d.OrderID,
			JewelleryID: d.JewelleryID,
			ModelNo:     d.ModelNo,
			UnitID:      d.UnitID,
			Quantity:    d.Quantity,
			Amount:      d.Amount,
			Date:        d.Date,
			Type:        d.Type,
			Description: d.Description,
		})
	}
	return resp, nil
}

// List lista los pedidos (más reciente primero) con el nombre del cliente.
func (uc *OrderUseCase) List() ([]dto.OrderResponse, error) {
	rows, err := uc.orderRepo.List()
	if err != nil {
		return nil, err
	}
	list := make([]dto.OrderResponse, 0, len(rows))
	for i := range rows {
		list = append(list, *toOrderResponse(&rows[i]))
	}
	return list, nil
}

// NextID devuelve el siguiente id de pedido para el formulario del SPA.
func (uc *OrderUseCase) NextID() (int64, error) {
	return uc.orderRepo.NextID()
}

// runWithRetry ejecuta la transacción y la reintenta una única vez si el
// almacén detecta un fallo de serialización.
func (uc *OrderUseCase) runWithRetry(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	unitRepo repository.StockUnitRepository,
	jewelleryRepo repository.JewelleryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	err := uc.txRunner.RunOrder(ctx, fn)
	if errors.Is(err, domain.ErrConflict) {
		err = uc.txRunner.RunOrder(ctx, fn)
	}
	return err
}

func toOrderResponse(row *repository.OrderRow) *dto.OrderResponse {
	return &dto.OrderResponse{
		OrderID:    row.OrderID,
		CustID:     row.CustID,
		CustName:   row.CustName,
		OrderDate:  row.OrderDate,
		TotalPrice: row.TotalPrice,
	}
}
