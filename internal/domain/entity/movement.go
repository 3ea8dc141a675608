package entity

import (
	"strings"
	"time"
)

// Direction indica el sentido de un movimiento de stock.
type Direction string

// Sentidos de movimiento.
const (
	DirectionIn  Direction = "in"  // entrada
	DirectionOut Direction = "out" // salida
)

// ParseDirection acepta "in"/"out" y los alias "entrada"/"saida"/"salida"/"inbound"/"outbound".
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "entrada", "inbound":
		return DirectionIn, true
	case "out", "saida", "salida", "outbound":
		return DirectionOut, true
	}
	return "", false
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (d Direction) Sign() int64 {
	if d == DirectionOut {
		return -1
	}
	return 1
}

// Movement es una entrada inmutable del libro de stock de un producto.
// Seq fija el orden de inserción; nunca se actualiza ni se expone su borrado.
type Movement struct {
	ID        string
	Seq       int64
	ProductID string
	Magnitude int64 // siempre > 0
	Direction Direction
	CreatedBy string // UserID
	CreatedAt time.Time
}

// Delta devuelve la magnitud con signo.
func (m *Movement) Delta() int64 {
	return m.Direction.Sign() * m.Magnitude
}
