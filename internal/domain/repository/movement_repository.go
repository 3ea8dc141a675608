package repository

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de stock (solo anexar).
type MovementRepository interface {
	// Append inserta el movimiento y completa ID (si vacío) y Seq.
	Append(ctx context.Context, movement *entity.Movement) error
	// ListByProduct devuelve los movimientos en orden de inserción (Seq ascendente).
	ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	// DeleteByProduct solo lo usa la política de borrado en cascada.
	DeleteByProduct(ctx context.Context, productID string) error
}
