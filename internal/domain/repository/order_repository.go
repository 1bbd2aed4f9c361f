package repository

import "github.com/jhoicas/joyeria-api/internal/domain/entity"

// OrderRow un pedido junto con el nombre del cliente (JOIN con customers).
type OrderRow struct {
	entity.Order
	CustName string
}

// OrderDetailRow una línea de pedido con los datos del catálogo.
type OrderDetailRow struct {
	entity.OrderDetail
	Type        string
	Description string
}

// OrderRepository define el puerto para pedidos y sus líneas.
type OrderRepository interface {
	GetByID(id int64) (*OrderRow, error)
	GetDetails(orderID int64) ([]OrderDetailRow, error)
	List() ([]OrderRow, error)
	NextID() (int64, error)
	CreateHeader(o *entity.Order) error
	UpdateHeader(o *entity.Order) error
	CreateDetail(d *entity.OrderDetail) error
	DeleteDetails(orderID int64) error
	Delete(id int64) error
}
