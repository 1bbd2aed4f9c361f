package entity

// Customer representa un cliente de la joyería.
type Customer struct {
	CustID   int64
	CustName string
	PhoneNo  string // único
	Email    string // único
}
