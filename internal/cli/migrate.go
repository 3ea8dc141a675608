package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand crea el comando migrate.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema embebido a la base de datos",
		Long: `Aplica el esquema (usuarios, productos y libro de movimientos). Es idempotente.

Ejemplos:
  inventoryctl migrate --driver sqlite --sqlite-path ./stockledger.db
  inventoryctl migrate --driver postgres --database-url postgres://...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := rootOpts.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Migrate(ctx); err != nil {
				return WrapExitError(ExitCommandError, "no se pudo aplicar el esquema", err)
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), "ok", map[string]string{"driver": b.Driver}, "")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Esquema aplicado (%s).\n", b.Driver)
			return nil
		},
	}
}
