package dto

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	CustName string `json:"cust_name" validate:"required,max=200"`
	PhoneNo  string `json:"phone_no" validate:"required,max=20"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateCustomerRequest entrada para actualizar un cliente.
type UpdateCustomerRequest struct {
	CustName *string `json:"cust_name"`
	PhoneNo  *string `json:"phone_no"`
	Email    *string `json:"email"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	CustID   int64  `json:"cust_id"`
	CustName string `json:"cust_name"`
	PhoneNo  string `json:"phone_no"`
	Email    string `json:"email"`
}
