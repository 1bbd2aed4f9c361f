package usecase

import (
	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente con el siguiente id disponible. Email y teléfono son
// únicos (el repositorio traduce la violación a ErrDuplicate).
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.CustName == "" || in.PhoneNo == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	id, err := uc.repo.NextID()
	if err != nil {
		return nil, err
	}
	c := &entity.Customer{
		CustID:   id,
		CustName: in.CustName,
		PhoneNo:  in.PhoneNo,
		Email:    in.Email,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente por id.
func (uc *CustomerUseCase) GetByID(id int64) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// List lista los clientes (más reciente primero).
func (uc *CustomerUseCase) List() ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return items, nil
}

// NextID devuelve el siguiente id de cliente para el formulario del SPA.
func (uc *CustomerUseCase) NextID() (int64, error) {
	return uc.repo.NextID()
}

// Update actualiza un cliente.
func (uc *CustomerUseCase) Update(id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.CustName != nil {
		c.CustName = *in.CustName
	}
	if in.PhoneNo != nil {
		c.PhoneNo = *in.PhoneNo
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina un cliente. Rechaza con ErrHasOrders si tiene pedidos.
func (uc *CustomerUseCase) Delete(id int64) error {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	count, err := uc.repo.CountOrders(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrHasOrders
	}
	return uc.repo.Delete(id)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		CustID:   c.CustID,
		CustName: c.CustName,
		PhoneNo:  c.PhoneNo,
		Email:    c.Email,
	}
}
