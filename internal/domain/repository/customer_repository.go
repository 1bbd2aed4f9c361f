package repository

import "github.com/jhoicas/joyeria-api/internal/domain/entity"

// CustomerRepository define el puerto para clientes.
type CustomerRepository interface {
	GetByID(id int64) (*entity.Customer, error)
	List() ([]*entity.Customer, error)
	NextID() (int64, error)
	Create(c *entity.Customer) error
	Update(c *entity.Customer) error
	Delete(id int64) error
	// CountOrders cuenta los pedidos del cliente (para impedir el borrado con pedidos).
	CountOrders(custID int64) (int64, error)
}
