package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockledger/internal/domain/ledger"
)

// ReportUseCase genera el reporte PDF del libro de stock de un producto.
type ReportUseCase struct {
	ledger    *LedgerUseCase
	generator LedgerPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(ledgerUC *LedgerUseCase, generator LedgerPDFGenerator) *ReportUseCase {
	return &ReportUseCase{ledger: ledgerUC, generator: generator}
}

// DownloadLedgerPDF devuelve los bytes del PDF y un nombre de archivo sugerido.
// Retorna domain.ErrNotFound si el producto no existe.
func (uc *ReportUseCase) DownloadLedgerPDF(ctx context.Context, productID string) ([]byte, string, error) {
	product, movements, err := uc.ledger.Snapshot(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	now := uc.ledger.now()
	pdf, err := uc.generator.GenerateLedgerPDF(ctx, product, ledger.RunningBalance(movements), now)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	filename := fmt.Sprintf("estoque-%s-%s.pdf", product.ID, now.Format(time.DateOnly))
	return pdf, filename, nil
}
