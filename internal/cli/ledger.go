package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
)

// LedgerVerifyOptions flags de ledger verify.
type LedgerVerifyOptions struct {
	*RootOptions
	ProductID string
}

// LedgerVerifyResult resultado agregado de la verificación.
type LedgerVerifyResult struct {
	Checks     []dto.LedgerCheck `json:"checks"`
	Total      int               `json:"total"`
	Drifted    int               `json:"drifted"`
	Consistent bool              `json:"consistent"`
}

// NewLedgerCommand agrupa los subcomandos del libro de movimientos.
func NewLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Operaciones sobre el libro de movimientos",
	}
	cmd.AddCommand(newLedgerVerifyCommand(rootOpts))
	return cmd
}

func newLedgerVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerVerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compara la cantidad de cada producto con la reconstruida desde su libro",
		Long: `Reconstruye el saldo de cada producto sumando sus movimientos en orden y lo
compara con la cantidad guardada.

Códigos de salida:
  0 - todos los productos coinciden
  1 - hay productos con deriva (o el producto indicado no existe)
  2 - error de configuración o base de datos

Ejemplos:
  inventoryctl ledger verify
  inventoryctl ledger verify --product 3f6c... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedgerVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ProductID, "product", "", "verificar solo este producto")

	return cmd
}

func runLedgerVerify(opts *LedgerVerifyOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	b, err := opts.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	uc := inventory.NewLedgerUseCase(b.TxRunner, b.Products)

	var checks []dto.LedgerCheck
	if opts.ProductID != "" {
		c, err := uc.Verify(ctx, opts.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			return WrapExitError(ExitFailure, "producto "+opts.ProductID, err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "no se pudo verificar el libro", err)
		}
		checks = []dto.LedgerCheck{c}
	} else {
		checks, err = uc.VerifyAll(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "no se pudo verificar el libro", err)
		}
	}

	result := LedgerVerifyResult{Checks: checks, Total: len(checks), Consistent: true}
	for _, c := range checks {
		if !c.Consistent() {
			result.Drifted++
			result.Consistent = false
		}
	}

	if opts.Format == "json" {
		status := "ok"
		if !result.Consistent {
			status = "error"
		}
		if err := writeJSON(cmd.OutOrStdout(), status, result, ""); err != nil {
			return err
		}
	} else {
		writeLedgerText(cmd, result, opts.Verbose)
	}

	if !result.Consistent {
		return NewExitError(ExitFailure, fmt.Sprintf("%d de %d productos con deriva", result.Drifted, result.Total))
	}
	return nil
}

func writeLedgerText(cmd *cobra.Command, result LedgerVerifyResult, verbose bool) {
	out := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(out, "No hay productos registrados.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTO\tNOMBRE\tCACHEADA\tLIBRO\tMOVS\tESTADO")
	for _, c := range result.Checks {
		if c.Consistent() && !verbose && !result.Consistent {
			continue
		}
		state := "ok"
		if !c.Consistent() {
			state = "DERIVA"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", c.ProductID, c.Name, c.Cached, c.Replayed, c.Movements, state)
	}
	_ = tw.Flush()

	if result.Consistent {
		fmt.Fprintf(out, "\n%d productos verificados, sin deriva.\n", result.Total)
		return
	}
	fmt.Fprintf(out, "\n%d de %d productos con deriva.\n", result.Drifted, result.Total)
}
