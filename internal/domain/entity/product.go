package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity es un valor derivado: la suma con signo de los movimientos de su libro (ledger).
// Solo el libro de stock lo modifica; editar el producto nunca toca Quantity.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio de venta, nunca negativo
	Category  string          // etiqueta opcional
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
