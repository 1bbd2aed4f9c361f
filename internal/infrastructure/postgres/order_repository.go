package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID obtiene un pedido con el nombre del cliente. Devuelve nil si no existe.
func (r *OrderRepo) GetByID(id int64) (*repository.OrderRow, error) {
	query := `
		SELECT o.order_id, o.cust_id, o.order_date, o.total_price, c.cust_name
		FROM orders o
		JOIN customers c ON c.cust_id = o.cust_id
		WHERE o.order_id = $1`
	var row repository.OrderRow
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&row.OrderID, &row.CustID, &row.OrderDate, &row.TotalPrice, &row.CustName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &row, nil
}

// GetDetails devuelve las líneas de un pedido con datos del catálogo.
func (r *OrderRepo) GetDetails(orderID int64) ([]repository.OrderDetailRow, error) {
	query := `
		SELECT d.order_id, d.jewellery_id, d.model_no, d.unit_id, d.quantity, d.amount, d.date,
		       j.type, j.description
		FROM order_details d
		JOIN jewellery j ON j.jewellery_id = d.jewellery_id
		WHERE d.order_id = $1
		ORDER BY d.jewellery_id, d.model_no, d.unit_id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order details: %w", err)
	}
	defer rows.Close()
	var list []repository.OrderDetailRow
	for rows.Next() {
		var d repository.OrderDetailRow
		if err := rows.Scan(
			&d.OrderID, &d.JewelleryID, &d.ModelNo, &d.UnitID, &d.Quantity, &d.Amount, &d.Date,
			&d.Type, &d.Description,
		); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// List lista todos los pedidos, los más recientes primero.
func (r *OrderRepo) List() ([]repository.OrderRow, error) {
	query := `
		SELECT o.order_id, o.cust_id, o.order_date, o.total_price, c.cust_name
		FROM orders o
		JOIN customers c ON c.cust_id = o.cust_id
		ORDER BY o.order_date DESC, o.order_id DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []repository.OrderRow
	for rows.Next() {
		var row repository.OrderRow
		if err := rows.Scan(&row.OrderID, &row.CustID, &row.OrderDate, &row.TotalPrice, &row.CustName); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// NextID devuelve MAX(order_id)+1.
func (r *OrderRepo) NextID() (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(order_id), 0) + 1 FROM orders`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next order id: %w", err)
	}
	return next, nil
}

// CreateHeader inserta la cabecera del pedido.
func (r *OrderRepo) CreateHeader(o *entity.Order) error {
	query := `
		INSERT INTO orders (order_id, cust_id, order_date, total_price)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, o.OrderID, o.CustID, o.OrderDate, o.TotalPrice)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// UpdateHeader actualiza cliente, fecha y total de la cabecera.
func (r *OrderRepo) UpdateHeader(o *entity.Order) error {
	query := `
		UPDATE orders SET cust_id = $2, order_date = $3, total_price = $4
		WHERE order_id = $1`
	tag, err := r.q.Exec(context.Background(), query, o.OrderID, o.CustID, o.OrderDate, o.TotalPrice)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateDetail inserta una línea de pedido.
func (r *OrderRepo) CreateDetail(d *entity.OrderDetail) error {
	query := `
		INSERT INTO order_details (order_id, jewellery_id, model_no, unit_id, quantity, amount, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		d.OrderID, d.JewelleryID, d.ModelNo, d.UnitID, d.Quantity, d.Amount, d.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order detail: %w", err)
	}
	return nil
}

// DeleteDetails borra todas las líneas de un pedido.
func (r *OrderRepo) DeleteDetails(orderID int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_details WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order details: %w", err)
	}
	return nil
}

// Delete borra la cabecera del pedido. Las líneas deben borrarse antes.
func (r *OrderRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
