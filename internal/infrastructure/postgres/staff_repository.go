package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

var _ repository.StaffRepository = (*StaffRepo)(nil)

// StaffRepo implementación de StaffRepository (usable con pool o tx).
type StaffRepo struct {
	q Querier
}

// NewStaffRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStaffRepository(q Querier) *StaffRepo {
	return &StaffRepo{q: q}
}

const staffColumns = `staff_id, username, password_hash, full_name, email, phone, role, created_at, last_login`

func scanStaff(row pgx.Row, s *entity.Staff) error {
	return row.Scan(
		&s.StaffID, &s.Username, &s.PasswordHash, &s.FullName, &s.Email,
		&s.Phone, &s.Role, &s.CreatedAt, &s.LastLogin,
	)
}

// GetByID obtiene un empleado por id. Devuelve nil si no existe.
func (r *StaffRepo) GetByID(id int64) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1`
	var s entity.Staff
	err := scanStaff(r.q.QueryRow(context.Background(), query, id), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &s, nil
}

// FindByUsername busca un empleado por username. Devuelve nil si no existe.
func (r *StaffRepo) FindByUsername(username string) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`
	var s entity.Staff
	err := scanStaff(r.q.QueryRow(context.Background(), query, username), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find staff by username: %w", err)
	}
	return &s, nil
}

// FindByUsernameOrEmail busca por username o email (para detectar duplicados en registro).
func (r *StaffRepo) FindByUsernameOrEmail(username, email string) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1 OR email = $2 LIMIT 1`
	var s entity.Staff
	err := scanStaff(r.q.QueryRow(context.Background(), query, username, email), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find staff by username/email: %w", err)
	}
	return &s, nil
}

// List lista todos los empleados.
func (r *StaffRepo) List() ([]*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY staff_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()
	var list []*entity.Staff
	for rows.Next() {
		var s entity.Staff
		if err := rows.Scan(
			&s.StaffID, &s.Username, &s.PasswordHash, &s.FullName, &s.Email,
			&s.Phone, &s.Role, &s.CreatedAt, &s.LastLogin,
		); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Create persiste un empleado y asigna el id generado.
func (r *StaffRepo) Create(s *entity.Staff) error {
	query := `
		INSERT INTO staff (username, password_hash, full_name, email, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING staff_id`
	err := r.q.QueryRow(context.Background(), query,
		s.Username, s.PasswordHash, s.FullName, s.Email, s.Phone, s.Role, s.CreatedAt,
	).Scan(&s.StaffID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

// Update actualiza los datos del empleado (incluido el hash de contraseña).
func (r *StaffRepo) Update(s *entity.Staff) error {
	query := `
		UPDATE staff SET username = $2, password_hash = $3, full_name = $4,
		                 email = $5, phone = $6, role = $7
		WHERE staff_id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.StaffID, s.Username, s.PasswordHash, s.FullName, s.Email, s.Phone, s.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaffNotFound
	}
	return nil
}

// Delete elimina un empleado.
func (r *StaffRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM staff WHERE staff_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaffNotFound
	}
	return nil
}

// UpdateLastLogin registra la hora del último login.
func (r *StaffRepo) UpdateLastLogin(id int64, t time.Time) error {
	_, err := r.q.Exec(context.Background(), `UPDATE staff SET last_login = $2 WHERE staff_id = $1`, id, t)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
