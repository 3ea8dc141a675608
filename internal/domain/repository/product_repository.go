package repository

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update persiste nombre, precio y categoría. Nunca modifica Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity es de uso exclusivo del libro de stock.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	List(ctx context.Context) ([]*entity.Product, error)
	// Delete devuelve domain.ErrNotFound si no había fila.
	Delete(ctx context.Context, id string) error
}
