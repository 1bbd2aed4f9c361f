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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente por id. Devuelve nil si no existe.
func (r *CustomerRepo) GetByID(id int64) (*entity.Customer, error) {
	query := `SELECT cust_id, cust_name, phone_no, email FROM customers WHERE cust_id = $1`
	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, id).Scan(&c.CustID, &c.CustName, &c.PhoneNo, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// List lista todos los clientes.
func (r *CustomerRepo) List() ([]*entity.Customer, error) {
	query := `SELECT cust_id, cust_name, phone_no, email FROM customers ORDER BY cust_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.CustID, &c.CustName, &c.PhoneNo, &c.Email); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// NextID devuelve MAX(cust_id)+1.
func (r *CustomerRepo) NextID() (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(cust_id), 0) + 1 FROM customers`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next customer id: %w", err)
	}
	return next, nil
}

// Create persiste un nuevo cliente. Teléfono y email son únicos.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	query := `INSERT INTO customers (cust_id, cust_name, phone_no, email) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, c.CustID, c.CustName, c.PhoneNo, c.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	query := `UPDATE customers SET cust_name = $2, phone_no = $3, email = $4 WHERE cust_id = $1`
	tag, err := r.q.Exec(context.Background(), query, c.CustID, c.CustName, c.PhoneNo, c.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente.
func (r *CustomerRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE cust_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountOrders cuenta los pedidos de un cliente.
func (r *CustomerRepo) CountOrders(custID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM orders WHERE cust_id = $1`, custID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count customer orders: %w", err)
	}
	return count, nil
}
