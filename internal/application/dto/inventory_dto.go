package dto

import "time"

// RegisterMovementRequest body para POST /products/{id}/movements.
// Magnitude llega como texto: "1.5", "0" o "-3" se rechazan con ValidationError.
type RegisterMovementRequest struct {
	Magnitude NumberText `json:"magnitude" form:"magnitude"`
	Direction string     `json:"direction" form:"direction"` // in | out (alias: entrada | saida)
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	ProductID string    `json:"product_id"`
	Magnitude int64     `json:"magnitude"`
	Direction string    `json:"direction"`
	Balance   int64     `json:"balance"` // saldo acumulado tras este movimiento
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterMovementResponse resultado de registrar un movimiento: el movimiento y la cantidad nueva.
type RegisterMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Quantity int64            `json:"quantity"`
}

// HistoryResponse historial del libro de un producto en orden de inserción.
type HistoryResponse struct {
	Product   ProductResponse    `json:"product"`
	Movements []MovementResponse `json:"movements"`
	TotalIn   int64              `json:"total_in"`
	TotalOut  int64              `json:"total_out"`
	Replayed  int64              `json:"replayed_quantity"`
	// Consistent compara la cantidad cacheada del producto con la reconstruida desde el libro.
	Consistent bool `json:"consistent"`
}

// LedgerCheck resultado de verificar un producto contra su libro.
type LedgerCheck struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Cached    int64  `json:"cached_quantity"`
	Replayed  int64  `json:"replayed_quantity"`
	Movements int    `json:"movements"`
}

// Consistent indica si cantidad cacheada y reconstruida coinciden.
func (c LedgerCheck) Consistent() bool { return c.Cached == c.Replayed }
