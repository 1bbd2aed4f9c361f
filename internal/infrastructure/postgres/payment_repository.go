package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentJoinQuery = `
	SELECT p.payment_id, p.order_id, p.amount, p.mode, p.payment_date, o.cust_id, c.cust_name
	FROM payments p
	JOIN orders o ON o.order_id = p.order_id
	JOIN customers c ON c.cust_id = o.cust_id`

// GetByID obtiene un pago con datos del cliente. Devuelve nil si no existe.
func (r *PaymentRepo) GetByID(id int64) (*repository.PaymentRow, error) {
	var row repository.PaymentRow
	err := r.q.QueryRow(context.Background(), paymentJoinQuery+` WHERE p.payment_id = $1`, id).Scan(
		&row.PaymentID, &row.OrderID, &row.Amount, &row.Mode, &row.PaymentDate, &row.CustID, &row.CustName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &row, nil
}

func (r *PaymentRepo) queryRows(query string, args ...any) ([]repository.PaymentRow, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []repository.PaymentRow
	for rows.Next() {
		var row repository.PaymentRow
		if err := rows.Scan(
			&row.PaymentID, &row.OrderID, &row.Amount, &row.Mode, &row.PaymentDate, &row.CustID, &row.CustName,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// List lista todos los pagos, los más recientes primero.
func (r *PaymentRepo) List() ([]repository.PaymentRow, error) {
	return r.queryRows(paymentJoinQuery + ` ORDER BY p.payment_date DESC, p.payment_id DESC`)
}

// ListByOrder lista los pagos de un pedido.
func (r *PaymentRepo) ListByOrder(orderID int64) ([]repository.PaymentRow, error) {
	return r.queryRows(paymentJoinQuery+` WHERE p.order_id = $1 ORDER BY p.payment_date`, orderID)
}

// NextID devuelve MAX(payment_id)+1.
func (r *PaymentRepo) NextID() (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(payment_id), 0) + 1 FROM payments`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next payment id: %w", err)
	}
	return next, nil
}

// Create persiste un nuevo pago.
func (r *PaymentRepo) Create(p *entity.Payment) error {
	query := `
		INSERT INTO payments (payment_id, order_id, amount, mode, payment_date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, p.PaymentID, p.OrderID, p.Amount, p.Mode, p.PaymentDate)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Update actualiza un pago.
func (r *PaymentRepo) Update(p *entity.Payment) error {
	query := `
		UPDATE payments SET order_id = $2, amount = $3, mode = $4, payment_date = $5
		WHERE payment_id = $1`
	tag, err := r.q.Exec(context.Background(), query, p.PaymentID, p.OrderID, p.Amount, p.Mode, p.PaymentDate)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pago.
func (r *PaymentRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM payments WHERE payment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TotalPaidForOrder suma los pagos registrados contra un pedido.
func (r *PaymentRepo) TotalPaidForOrder(orderID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id = $1`, orderID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total paid for order: %w", err)
	}
	return total, nil
}
