package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/ledger"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de stock: si fn devuelve error se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// LedgerPDFGenerator genera el reporte PDF del libro de un producto.
type LedgerPDFGenerator interface {
	GenerateLedgerPDF(
		ctx context.Context,
		product *entity.Product,
		entries []ledger.Entry,
		generatedAt time.Time,
	) ([]byte, error)
}
