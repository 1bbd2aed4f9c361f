package repository

import (
	"time"

	"github.com/jhoicas/joyeria-api/internal/domain/entity"
)

// StaffRepository define el puerto para empleados.
type StaffRepository interface {
	GetByID(id int64) (*entity.Staff, error)
	FindByUsername(username string) (*entity.Staff, error)
	FindByUsernameOrEmail(username, email string) (*entity.Staff, error)
	List() ([]*entity.Staff, error)
	Create(s *entity.Staff) error
	Update(s *entity.Staff) error
	Delete(id int64) error
	UpdateLastLogin(id int64, t time.Time) error
}
