package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger (auditoría).
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, jewellery_id, model_no, unit_id, kind, delta,
		                             resulting_quantity, resulting_status, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.JewelleryID, m.ModelNo, m.UnitID, m.Kind, m.Delta,
		m.ResultingQuantity, m.ResultingStatus, m.Reference, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByUnit devuelve los movimientos más recientes de una unidad.
func (r *StockMovementRepo) ListByUnit(key entity.StockUnitKey, limit int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, jewellery_id, model_no, unit_id, kind, delta,
		       resulting_quantity, resulting_status, reference, created_by, created_at
		FROM stock_movements
		WHERE jewellery_id = $1 AND model_no = $2 AND unit_id = $3
		ORDER BY created_at DESC LIMIT $4`
	rows, err := r.q.Query(context.Background(), query, key.JewelleryID, key.ModelNo, key.UnitID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.JewelleryID, &m.ModelNo, &m.UnitID, &m.Kind, &m.Delta,
			&m.ResultingQuantity, &m.ResultingStatus, &m.Reference, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
