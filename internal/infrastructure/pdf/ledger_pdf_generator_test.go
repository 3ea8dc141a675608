package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/ledger"
)

func TestGenerateLedgerPDF(t *testing.T) {
	product := &entity.Product{
		ID:       "7b0c9b2e-0000-0000-0000-000000000001",
		Name:     "Cuaderno rayado",
		Price:    decimal.RequireFromString("1234.5"),
		Category: "papelería",
		Quantity: 7,
	}
	movements := []*entity.Movement{
		{ID: "m1", Seq: 1, ProductID: product.ID, Magnitude: 10, Direction: entity.DirectionIn, CreatedAt: time.Now()},
		{ID: "m2", Seq: 2, ProductID: product.ID, Magnitude: 3, Direction: entity.DirectionOut, CreatedAt: time.Now()},
	}

	out, err := NewMarotoPDFGenerator().GenerateLedgerPDF(context.Background(), product, ledger.RunningBalance(movements), time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateLedgerPDF_SinMovimientos(t *testing.T) {
	product := &entity.Product{ID: "p-1", Name: "Vacío", Price: decimal.Zero}
	out, err := NewMarotoPDFGenerator().GenerateLedgerPDF(context.Background(), product, nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1.234,50", formatPrice(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0,00", formatPrice(decimal.Zero))
	assert.Equal(t, "1.000.000,99", formatPrice(decimal.RequireFromString("1000000.99")))
	assert.Equal(t, "999,10", formatPrice(decimal.RequireFromString("999.1")))
}
