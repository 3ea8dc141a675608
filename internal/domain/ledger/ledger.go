// Package ledger contiene las reglas puras del libro de stock (servicio de dominio):
// aplicar un movimiento a la cantidad cacheada y reconstruir la cantidad desde el libro.
package ledger

import (
	"math"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// Apply valida un movimiento contra la cantidad actual y devuelve la nueva cantidad.
// Una salida mayor que la cantidad disponible falla con *domain.InsufficientStockError.
// Una entrada que desborda int64 se rechaza como entrada inválida.
func Apply(current, magnitude int64, dir entity.Direction) (int64, error) {
	if magnitude <= 0 {
		return current, domain.Invalid("magnitude", "debe ser un entero positivo")
	}
	switch dir {
	case entity.DirectionIn:
		if magnitude > math.MaxInt64-current {
			return current, domain.Invalid("magnitude", "excede la cantidad máxima admitida")
		}
		return current + magnitude, nil
	case entity.DirectionOut:
		if magnitude > current {
			return current, &domain.InsufficientStockError{Requested: magnitude, Available: current}
		}
		return current - magnitude, nil
	}
	return current, domain.Invalid("direction", "debe ser in u out")
}

// Replay suma con signo las magnitudes en orden del libro.
func Replay(movements []*entity.Movement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Delta()
	}
	return total
}

// Entry es un movimiento acompañado del saldo acumulado hasta él.
type Entry struct {
	Movement *entity.Movement
	Balance  int64
}

// RunningBalance reproduce el libro devolviendo el saldo tras cada movimiento.
func RunningBalance(movements []*entity.Movement) []Entry {
	out := make([]Entry, 0, len(movements))
	var balance int64
	for _, m := range movements {
		balance += m.Delta()
		out = append(out, Entry{Movement: m, Balance: balance})
	}
	return out
}

// Totals devuelve la suma de entradas y de salidas por separado.
func Totals(movements []*entity.Movement) (in, out int64) {
	for _, m := range movements {
		if m.Direction == entity.DirectionOut {
			out += m.Magnitude
			continue
		}
		in += m.Magnitude
	}
	return in, out
}
