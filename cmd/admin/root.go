package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/supabase"
	"github.com/jhoicas/gncci-portal/pkg/config"
	"github.com/jhoicas/gncci-portal/pkg/logger"
)

// errNoServiceRole sin SUPABASE_SERVICE_ROLE_KEY no hay operación posible.
var errNoServiceRole = errors.New("admin: SUPABASE_SERVICE_ROLE_KEY es obligatoria para el CLI")

// env estado compartido por los comandos. Los constructores se reemplazan en tests.
type env struct {
	verbose bool

	packages func() (repository.PackageRepository, error)
	users    func() (repository.UserAdmin, error)
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operación del portal GNCCI (paquetes y usuarios)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "registrar las peticiones al backend")

	if e.packages == nil {
		e.packages = func() (repository.PackageRepository, error) {
			c, err := e.client()
			if err != nil {
				return nil, err
			}
			return supabase.NewPackageRepository(c, supabase.ServiceRole(c)), nil
		}
	}
	if e.users == nil {
		e.users = func() (repository.UserAdmin, error) {
			c, err := e.client()
			if err != nil {
				return nil, err
			}
			return supabase.NewAdminUsers(c), nil
		}
	}

	root.AddCommand(
		newSeedPackagesCmd(e),
		newCreateUserCmd(e),
		newSetRoleCmd(e),
	)
	return root
}

// client construye el binding con la configuración del entorno.
func (e *env) client() (*supabase.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := "warn"
	if e.verbose {
		level = "debug"
	}
	// stdout queda para la salida de los comandos.
	log := logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})

	c, err := supabase.New(supabase.Config{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		Timeout:        cfg.Supabase.Timeout,
	}, supabase.WithLogger(log.Component("supabase")))
	if err != nil {
		return nil, err
	}
	if !c.Configured() {
		return nil, config.ErrMissingSupabase
	}
	if !c.HasServiceRole() {
		return nil, errNoServiceRole
	}
	return c, nil
}
