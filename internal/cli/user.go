package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockledger/internal/application/auth"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/domain"
)

// UserCreateOptions flags de user create.
type UserCreateOptions struct {
	*RootOptions
	Name     string
	Email    string
	Password string
}

// NewUserCommand agrupa los subcomandos de usuarios.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de usuarios",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario con las mismas reglas que el registro web",
		Long: `Crea un usuario. El email se normaliza y el password se guarda con bcrypt.

Códigos de salida:
  0 - usuario creado
  1 - datos inválidos o email ya registrado
  2 - error de configuración o base de datos

Ejemplo:
  inventoryctl user create --name Ana --email ana@example.com --password secreto123`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "nombre del usuario (requerido)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email del usuario (requerido)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password en texto (requerido)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runUserCreate(opts *UserCreateOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	b, err := opts.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()
	if err := b.Migrate(ctx); err != nil {
		return WrapExitError(ExitCommandError, "no se pudo aplicar el esquema", err)
	}

	// La firma de tokens no interviene en el registro
	uc := auth.NewAuthUseCase(b.Users, auth.JWTConfig{})
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Name:     opts.Name,
		Email:    opts.Email,
		Password: opts.Password,
	})
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr), errors.Is(err, domain.ErrEmailAlreadyExists):
			return WrapExitError(ExitFailure, "no se pudo crear el usuario", err)
		default:
			return WrapExitError(ExitCommandError, "no se pudo crear el usuario", err)
		}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), "ok", user, "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Usuario creado: %s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return nil
}
