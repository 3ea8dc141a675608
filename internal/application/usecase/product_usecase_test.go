package usecase_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/application/usecase"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/internal/infrastructure/storage"
)

type fixture struct {
	backend  *storage.Backend
	products *usecase.ProductUseCase
	ledger   *inventory.LedgerUseCase
}

func newFixture(t *testing.T, policy usecase.DeletePolicy) fixture {
	t.Helper()
	b, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return fixture{
		backend:  b,
		products: usecase.NewProductUseCase(b.Products, b.TxRunner, policy),
		ledger:   inventory.NewLedgerUseCase(b.TxRunner, b.Products),
	}
}

func (f fixture) createWithStock(t *testing.T, qty int64) string {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.ProductRequest{Name: "Borracha", Price: "1.20"})
	require.NoError(t, err)
	if qty > 0 {
		_, err = f.ledger.RegisterMovement(context.Background(), inventory.MovementInputDTO{
			ProductID: p.ID, Magnitude: qty, Direction: entity.DirectionIn,
		})
		require.NoError(t, err)
	}
	return p.ID
}

func TestProductUseCase_Create(t *testing.T) {
	f := newFixture(t, usecase.DeleteOrphan)
	ctx := context.Background()

	p, err := f.products.Create(ctx, dto.ProductRequest{Name: "  Lápis ", Price: "0,75", Category: "escola"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Lápis", p.Name)
	assert.Equal(t, "0.75", p.Price.String())
	assert.Equal(t, int64(0), p.Quantity)

	_, err = f.products.Create(ctx, dto.ProductRequest{Name: "", Price: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Create(ctx, dto.ProductRequest{Name: "X", Price: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Create(ctx, dto.ProductRequest{Name: "X", Price: "-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestProductUseCase_UpdateNoTocaCantidad(t *testing.T) {
	f := newFixture(t, usecase.DeleteOrphan)
	ctx := context.Background()
	id := f.createWithStock(t, 5)

	p, err := f.products.Update(ctx, id, dto.ProductRequest{Name: "Borracha branca", Price: "1.50"})
	require.NoError(t, err)
	assert.Equal(t, "Borracha branca", p.Name)
	assert.Equal(t, int64(5), p.Quantity)

	got, err := f.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, "1.5", got.Price.String())

	_, err = f.products.Update(ctx, "no-existe", dto.ProductRequest{Name: "A", Price: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_UpdateInexistenteAntesQueValidacion(t *testing.T) {
	f := newFixture(t, usecase.DeleteOrphan)
	ctx := context.Background()

	_, err := f.products.Update(ctx, "no-existe", dto.ProductRequest{Name: "", Price: "abc"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	id := f.createWithStock(t, 0)
	_, err = f.products.Update(ctx, id, dto.ProductRequest{Name: "A", Price: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_DeleteOrphanConservaHistorial(t *testing.T) {
	f := newFixture(t, usecase.DeleteOrphan)
	ctx := context.Background()
	id := f.createWithStock(t, 3)

	require.NoError(t, f.products.Delete(ctx, id))

	_, err := f.products.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Los movimientos siguen en la tabla aunque el producto ya no exista
	var n int64
	err = f.backend.TxRunner.Run(ctx, func(_ repository.ProductRepository, movRepo repository.MovementRepository) error {
		var err error
		n, err = movRepo.CountByProduct(ctx, id)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, f.products.Delete(ctx, id), domain.ErrNotFound)
}

func TestProductUseCase_DeleteCascadeBorraHistorial(t *testing.T) {
	f := newFixture(t, usecase.DeleteCascade)
	ctx := context.Background()
	id := f.createWithStock(t, 3)

	require.NoError(t, f.products.Delete(ctx, id))

	var n int64
	err := f.backend.TxRunner.Run(ctx, func(_ repository.ProductRepository, movRepo repository.MovementRepository) error {
		var err error
		n, err = movRepo.CountByProduct(ctx, id)
		return err
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductUseCase_DeleteRestrict(t *testing.T) {
	f := newFixture(t, usecase.DeleteRestrict)
	ctx := context.Background()

	withHistory := f.createWithStock(t, 2)
	assert.ErrorIs(t, f.products.Delete(ctx, withHistory), domain.ErrConflict)
	_, err := f.products.GetByID(ctx, withHistory)
	assert.NoError(t, err, "el producto sigue existiendo")

	empty := f.createWithStock(t, 0)
	assert.NoError(t, f.products.Delete(ctx, empty))
}

func TestProductUseCase_MovimientoTrasBorrado(t *testing.T) {
	f := newFixture(t, usecase.DeleteOrphan)
	ctx := context.Background()
	id := f.createWithStock(t, 1)
	require.NoError(t, f.products.Delete(ctx, id))

	_, err := f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{ProductID: id, Magnitude: 1, Direction: entity.DirectionIn})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseDeletePolicy(t *testing.T) {
	for _, s := range []string{"orphan", "cascade", "restrict", " Cascade "} {
		_, ok := usecase.ParseDeletePolicy(s)
		assert.True(t, ok, s)
	}
	_, ok := usecase.ParseDeletePolicy("nuke")
	assert.False(t, ok)
}
