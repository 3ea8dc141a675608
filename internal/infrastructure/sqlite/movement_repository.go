package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de stock sobre SQLite. Solo anexa.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento; Seq es el rowid asignado por AUTOINCREMENT.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (id, product_id, magnitude, direction, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Magnitude, string(m.Direction), nullIfEmpty(m.CreatedBy), m.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.Seq = seq
	return nil
}

// ListByProduct devuelve el libro del producto en orden de inserción.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, seq, product_id, magnitude, direction, created_by, created_at
		FROM stock_movements WHERE product_id = ? ORDER BY seq`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var (
			m         entity.Movement
			direction string
			createdBy sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Seq, &m.ProductID, &m.Magnitude, &direction, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Direction = entity.Direction(direction)
		m.CreatedBy = createdBy.String
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByProduct cuenta los movimientos del producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = ?`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}

// DeleteByProduct borra el libro completo del producto.
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM stock_movements WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("delete stock movements: %w", err)
	}
	return nil
}
