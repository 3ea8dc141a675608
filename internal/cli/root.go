// Package cli implementa inventoryctl, la herramienta de operación del inventario.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockledger/internal/infrastructure/storage"
	"github.com/jhoicas/stockledger/pkg/config"
	"github.com/jhoicas/stockledger/pkg/logger"
)

// RootOptions flags globales de todos los comandos.
type RootOptions struct {
	Verbose     bool
	Format      string // text | json
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json"}

// NewRootCommand crea el comando raíz de inventoryctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "inventoryctl",
		Short: "Operación del inventario y su libro de movimientos",
		Long: `inventoryctl aplica el esquema, crea usuarios y verifica que la cantidad
de cada producto coincida con la reconstruida desde su libro de movimientos.

La persistencia se toma de las mismas variables que el servidor (STORE_DRIVER,
SQLITE_PATH, DATABASE_URL, DB_*). Los flags globales tienen prioridad.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("formato inválido %q: debe ser uno de %v", opts.Format, ValidFormats))
			}
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			logger.NewWithWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "salida detallada")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "backend de persistencia (postgres|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", "", "ruta del archivo SQLite")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "connection string de PostgreSQL")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewLedgerCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig lee la configuración de persistencia y aplica los flags globales encima.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, err
	}
	if o.Driver != "" {
		cfg.Store.Driver = o.Driver
	}
	if o.SQLitePath != "" {
		cfg.Store.SQLitePath = o.SQLitePath
	}
	if o.DatabaseURL != "" {
		cfg.DB.DatabaseURL = o.DatabaseURL
	}
	return cfg, nil
}

// openBackend abre el backend sin migrar; los comandos que lo necesitan llaman Migrate.
func (o *RootOptions) openBackend(ctx context.Context) (*storage.Backend, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configuración inválida", err)
	}
	cfg.Store.AutoMigrate = false
	b, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "no se pudo abrir la base de datos", err)
	}
	return b, nil
}
