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

var _ repository.StockUnitRepository = (*StockUnitRepo)(nil)

// StockUnitRepo implementación de StockUnitRepository sobre PostgreSQL (usable con pool o tx).
type StockUnitRepo struct {
	q Querier
}

// NewStockUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockUnitRepository(q Querier) *StockUnitRepo {
	return &StockUnitRepo{q: q}
}

const stockUnitColumns = `jewellery_id, model_no, unit_id, quantity, status, weight, size, sold_price, sold_at`

func scanStockUnit(row pgx.Row, u *entity.StockUnit) error {
	return row.Scan(
		&u.JewelleryID, &u.ModelNo, &u.UnitID, &u.Quantity, &u.Status,
		&u.Weight, &u.Size, &u.SoldPrice, &u.SoldAt,
	)
}

// Get obtiene una unidad por clave compuesta. Devuelve nil si no existe.
func (r *StockUnitRepo) Get(key entity.StockUnitKey) (*entity.StockUnit, error) {
	query := `
		SELECT ` + stockUnitColumns + `
		FROM stock_units WHERE jewellery_id = $1 AND model_no = $2 AND unit_id = $3`
	var u entity.StockUnit
	err := scanStockUnit(r.q.QueryRow(context.Background(), query, key.JewelleryID, key.ModelNo, key.UnitID), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock unit: %w", err)
	}
	return &u, nil
}

// GetForUpdate obtiene la unidad y bloquea la fila para update (SELECT FOR UPDATE).
// Evita lost updates entre reservas concurrentes sobre la misma unidad.
func (r *StockUnitRepo) GetForUpdate(key entity.StockUnitKey) (*entity.StockUnit, error) {
	query := `
		SELECT ` + stockUnitColumns + `
		FROM stock_units WHERE jewellery_id = $1 AND model_no = $2 AND unit_id = $3
		FOR UPDATE`
	var u entity.StockUnit
	err := scanStockUnit(r.q.QueryRow(context.Background(), query, key.JewelleryID, key.ModelNo, key.UnitID), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock unit for update: %w", err)
	}
	return &u, nil
}

// Insert persiste una nueva unidad de stock.
func (r *StockUnitRepo) Insert(unit *entity.StockUnit) error {
	query := `
		INSERT INTO stock_units (jewellery_id, model_no, unit_id, quantity, status, weight, size, sold_price, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		unit.JewelleryID, unit.ModelNo, unit.UnitID, unit.Quantity, unit.Status,
		unit.Weight, unit.Size, unit.SoldPrice, unit.SoldAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock unit: %w", err)
	}
	return nil
}

// UpdateQuantityStatus escribe cantidad, estado y sold_at de una unidad.
func (r *StockUnitRepo) UpdateQuantityStatus(key entity.StockUnitKey, quantity int64, status string, soldAt *time.Time) error {
	query := `
		UPDATE stock_units SET quantity = $4, status = $5, sold_at = $6
		WHERE jewellery_id = $1 AND model_no = $2 AND unit_id = $3`
	tag, err := r.q.Exec(context.Background(), query,
		key.JewelleryID, key.ModelNo, key.UnitID, quantity, status, soldAt,
	)
	if err != nil {
		return fmt.Errorf("update stock unit quantity/status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateAttributes actualiza peso, talla y precio de venta; no toca cantidad ni estado.
func (r *StockUnitRepo) UpdateAttributes(unit *entity.StockUnit) error {
	query := `
		UPDATE stock_units SET weight = $4, size = $5, sold_price = $6
		WHERE jewellery_id = $1 AND model_no = $2 AND unit_id = $3`
	tag, err := r.q.Exec(context.Background(), query,
		unit.JewelleryID, unit.ModelNo, unit.UnitID, unit.Weight, unit.Size, unit.SoldPrice,
	)
	if err != nil {
		return fmt.Errorf("update stock unit attributes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una unidad por clave compuesta.
func (r *StockUnitRepo) Delete(key entity.StockUnitKey) error {
	query := `DELETE FROM stock_units WHERE jewellery_id = $1 AND model_no = $2 AND unit_id = $3`
	tag, err := r.q.Exec(context.Background(), query, key.JewelleryID, key.ModelNo, key.UnitID)
	if err != nil {
		return fmt.Errorf("delete stock unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const stockUnitJoinQuery = `
	SELECT su.jewellery_id, su.model_no, su.unit_id, su.quantity, su.status,
	       su.weight, su.size, su.sold_price, su.sold_at, j.type, j.description
	FROM stock_units su
	JOIN jewellery j ON j.jewellery_id = su.jewellery_id`

func (r *StockUnitRepo) queryRows(query string, args ...any) ([]repository.StockUnitRow, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock units: %w", err)
	}
	defer rows.Close()
	var list []repository.StockUnitRow
	for rows.Next() {
		var row repository.StockUnitRow
		if err := rows.Scan(
			&row.JewelleryID, &row.ModelNo, &row.UnitID, &row.Quantity, &row.Status,
			&row.Weight, &row.Size, &row.SoldPrice, &row.SoldAt, &row.Type, &row.Description,
		); err != nil {
			return nil, fmt.Errorf("scan stock unit: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListAll lista todas las unidades con datos del catálogo.
func (r *StockUnitRepo) ListAll() ([]repository.StockUnitRow, error) {
	return r.queryRows(stockUnitJoinQuery + ` ORDER BY su.jewellery_id, su.model_no, su.unit_id`)
}

// ListByJewellery lista las unidades de una joya.
func (r *StockUnitRepo) ListByJewellery(jewelleryID int64) ([]repository.StockUnitRow, error) {
	return r.queryRows(stockUnitJoinQuery+` WHERE su.jewellery_id = $1 ORDER BY su.model_no, su.unit_id`, jewelleryID)
}

// ListAvailable lista las unidades en estado Available.
func (r *StockUnitRepo) ListAvailable() ([]repository.StockUnitRow, error) {
	return r.queryRows(stockUnitJoinQuery + ` WHERE su.status = 'Available' ORDER BY su.jewellery_id, su.model_no, su.unit_id`)
}
