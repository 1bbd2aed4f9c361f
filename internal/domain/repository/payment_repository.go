package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-api/internal/domain/entity"
)

// PaymentRow un pago junto con el cliente del pedido (JOIN con orders y customers).
type PaymentRow struct {
	entity.Payment
	CustID   int64
	CustName string
}

// PaymentRepository define el puerto para pagos.
type PaymentRepository interface {
	GetByID(id int64) (*PaymentRow, error)
	List() ([]PaymentRow, error)
	ListByOrder(orderID int64) ([]PaymentRow, error)
	NextID() (int64, error)
	Create(p *entity.Payment) error
	Update(p *entity.Payment) error
	Delete(id int64) error
	// TotalPaidForOrder suma los pagos registrados contra un pedido.
	TotalPaidForOrder(orderID int64) (decimal.Decimal, error)
}
