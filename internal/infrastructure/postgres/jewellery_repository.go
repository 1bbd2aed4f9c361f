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

var _ repository.JewelleryRepository = (*JewelleryRepo)(nil)

// JewelleryRepo implementación de JewelleryRepository (usable con pool o tx).
type JewelleryRepo struct {
	q Querier
}

// NewJewelleryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJewelleryRepository(q Querier) *JewelleryRepo {
	return &JewelleryRepo{q: q}
}

// GetByID obtiene una joya por id. Devuelve nil si no existe.
func (r *JewelleryRepo) GetByID(id int64) (*entity.Jewellery, error) {
	query := `
		SELECT jewellery_id, type, description, hsn, quantity
		FROM jewellery WHERE jewellery_id = $1`
	var j entity.Jewellery
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&j.JewelleryID, &j.Type, &j.Description, &j.HSN, &j.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get jewellery: %w", err)
	}
	return &j, nil
}

// List lista el catálogo completo.
func (r *JewelleryRepo) List() ([]*entity.Jewellery, error) {
	query := `
		SELECT jewellery_id, type, description, hsn, quantity
		FROM jewellery ORDER BY jewellery_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list jewellery: %w", err)
	}
	defer rows.Close()
	var list []*entity.Jewellery
	for rows.Next() {
		var j entity.Jewellery
		if err := rows.Scan(&j.JewelleryID, &j.Type, &j.Description, &j.HSN, &j.Quantity); err != nil {
			return nil, fmt.Errorf("scan jewellery: %w", err)
		}
		list = append(list, &j)
	}
	return list, rows.Err()
}

// NextID devuelve MAX(jewellery_id)+1, como espera el formulario del SPA.
func (r *JewelleryRepo) NextID() (int64, error) {
	var maxID *int64
	err := r.q.QueryRow(context.Background(), `SELECT MAX(jewellery_id) FROM jewellery`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("next jewellery id: %w", err)
	}
	if maxID == nil {
		return 1, nil
	}
	return *maxID + 1, nil
}

// Create persiste una nueva joya.
func (r *JewelleryRepo) Create(j *entity.Jewellery) error {
	query := `
		INSERT INTO jewellery (jewellery_id, type, description, hsn, quantity)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, j.JewelleryID, j.Type, j.Description, j.HSN, j.Quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert jewellery: %w", err)
	}
	return nil
}

// Update actualiza tipo, descripción y HSN. No toca quantity (lo mantiene el ledger).
func (r *JewelleryRepo) Update(j *entity.Jewellery) error {
	query := `
		UPDATE jewellery SET type = $2, description = $3, hsn = $4
		WHERE jewellery_id = $1`
	tag, err := r.q.Exec(context.Background(), query, j.JewelleryID, j.Type, j.Description, j.HSN)
	if err != nil {
		return fmt.Errorf("update jewellery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una joya. Traduce la violación de FK (unidades o pedidos
// existentes) a ErrConflict.
func (r *JewelleryRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM jewellery WHERE jewellery_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete jewellery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustQuantity aplica un delta relativo al agregado. Update relativo en SQL:
// no hay ventana read-modify-write sobre el agregado.
func (r *JewelleryRepo) AdjustQuantity(id int64, delta int64) error {
	query := `UPDATE jewellery SET quantity = quantity + $2 WHERE jewellery_id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust jewellery quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
