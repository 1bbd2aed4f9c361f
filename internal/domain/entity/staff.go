package entity

import "time"

// Roles válidos para Staff.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Staff representa un empleado con acceso al sistema.
type Staff struct {
	StaffID      int64
	Username     string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Email        string
	Phone        string
	Role         string // admin, staff
	CreatedAt    time.Time
	LastLogin    *time.Time
}
