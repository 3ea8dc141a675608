// Package storage arma el backend de persistencia (PostgreSQL o SQLite) según la configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stockledger/pkg/config"
)

// Backend agrupa los puertos de persistencia de un driver.
type Backend struct {
	Driver   string
	TxRunner inventory.TxRunner
	Products repository.ProductRepository
	Users    repository.UserRepository
	// Migrate aplica el esquema; en SQLite ya se aplicó al abrir.
	Migrate func(ctx context.Context) error
	closeFn func()
}

// Close libera las conexiones del backend.
func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// Open abre el backend indicado por cfg.Store.Driver. Si AutoMigrate está activo, aplica el esquema.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	var (
		b   *Backend
		err error
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		b, err = openPostgres(ctx, cfg.DB)
	case config.DriverSQLite:
		b, err = OpenSQLite(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("storage: driver no soportado %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Store.AutoMigrate {
		if err := b.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		log.Info().Str("driver", b.Driver).Msg("esquema aplicado")
	}
	return b, nil
}

func openPostgres(ctx context.Context, dbCfg config.DBConfig) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("storage postgres: %w", err)
	}
	return &Backend{
		Driver:   config.DriverPostgres,
		TxRunner: postgres.NewTxRunner(pool),
		Products: postgres.NewProductRepository(pool),
		Users:    postgres.NewUserRepository(pool),
		Migrate: func(ctx context.Context) error {
			return postgres.Migrate(ctx, pool)
		},
		closeFn: pool.Close,
	}, nil
}

// OpenSQLite abre un backend SQLite en path. Lo usan también los tests de otros paquetes.
func OpenSQLite(path string) (*Backend, error) {
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage sqlite: %w", err)
	}
	return &Backend{
		Driver:   config.DriverSQLite,
		TxRunner: sqlite.NewTxRunner(store.DB()),
		Products: sqlite.NewProductRepository(store.DB()),
		Users:    sqlite.NewUserRepository(store.DB()),
		Migrate:  func(context.Context) error { return nil },
		closeFn:  func() { _ = store.Close() },
	}, nil
}
