package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// PaymentUseCase casos de uso para pagos contra pedidos.
type PaymentUseCase struct {
	repo      repository.PaymentRepository
	orderRepo repository.OrderRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(repo repository.PaymentRepository, orderRepo repository.OrderRepository) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, orderRepo: orderRepo}
}

// Create registra un pago contra un pedido existente.
func (uc *PaymentUseCase) Create(in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	switch in.Mode {
	case entity.PaymentModeCash, entity.PaymentModeCard, entity.PaymentModeUPI:
	default:
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	id, err := uc.repo.NextID()
	if err != nil {
		return nil, err
	}
	paymentDate := time.Now()
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}
	p := &entity.Payment{
		PaymentID:   id,
		OrderID:     in.OrderID,
		Amount:      in.Amount,
		Mode:        in.Mode,
		PaymentDate: paymentDate,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return &dto.PaymentResponse{
		PaymentID:   p.PaymentID,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		Mode:        p.Mode,
		PaymentDate: p.PaymentDate,
		CustID:      order.CustID,
		CustName:    order.CustName,
	}, nil
}

// GetByID obtiene un pago por id.
func (uc *PaymentUseCase) GetByID(id int64) (*dto.PaymentResponse, error) {
	row, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return toPaymentResponse(row), nil
}

// List lista todos los pagos con el cliente del pedido.
func (uc *PaymentUseCase) List() ([]dto.PaymentResponse, error) {
	rows, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	list := make([]dto.PaymentResponse, 0, len(rows))
	for i := range rows {
		list = append(list, *toPaymentResponse(&rows[i]))
	}
	return list, nil
}

// NextID devuelve el siguiente id de pago para el formulario del SPA.
func (uc *PaymentUseCase) NextID() (int64, error) {
	return uc.repo.NextID()
}

// Update actualiza un pago.
func (uc *PaymentUseCase) Update(id int64, in dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	row, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	p := row.Payment
	if in.Amount != nil {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		p.Amount = *in.Amount
	}
	if in.Mode != nil {
		switch *in.Mode {
		case entity.PaymentModeCash, entity.PaymentModeCard, entity.PaymentModeUPI:
		default:
			return nil, domain.ErrInvalidInput
		}
		p.Mode = *in.Mode
	}
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	if err := uc.repo.Update(&p); err != nil {
		return nil, err
	}
	row.Payment = p
	return toPaymentResponse(row), nil
}

// Delete elimina un pago.
func (uc *PaymentUseCase) Delete(id int64) error {
	row, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// OrderBalance devuelve el saldo pendiente de un pedido.
func (uc *PaymentUseCase) OrderBalance(orderID int64) (*dto.OrderBalanceResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	paid, err := uc.repo.TotalPaidForOrder(orderID)
	if err != nil {
		return nil, err
	}
	return &dto.OrderBalanceResponse{
		OrderID:    orderID,
		TotalPrice: order.TotalPrice,
		TotalPaid:  paid,
		Pending:    order.TotalPrice.Sub(paid),
	}, nil
}

func toPaymentResponse(row *repository.PaymentRow) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		PaymentID:   row.PaymentID,
		OrderID:     row.OrderID,
		Amount:      row.Amount,
		Mode:        row.Mode,
		PaymentDate: row.PaymentDate,
		CustID:      row.CustID,
		CustName:    row.CustName,
	}
}
