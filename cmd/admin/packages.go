package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// packageFile formato del archivo de paquetes:
//
//	packages:
//	  - name: SME Membership
//	    type: sme
//	    annual_fee: "1000.00"
//	    features: [Directory listing, Event discounts]
//	    is_active: true
type packageFile struct {
	Packages []entity.MembershipPackage `yaml:"packages"`
}

func loadPackages(r io.Reader) ([]entity.MembershipPackage, error) {
	var f packageFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("leer paquetes: %w", err)
	}
	for i, p := range f.Packages {
		if p.Name == "" {
			return nil, fmt.Errorf("paquete %d: name es obligatorio", i+1)
		}
		if !p.Type.Valid() {
			return nil, fmt.Errorf("paquete %q: type %q inválido", p.Name, p.Type)
		}
		if !p.AnnualFee.IsPositive() {
			return nil, fmt.Errorf("paquete %q: annual_fee debe ser mayor que cero", p.Name)
		}
	}
	return f.Packages, nil
}

func newSeedPackagesCmd(e *env) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "seed-packages",
		Short: "Crea o actualiza (por nombre) los paquetes de membresía de un YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			pkgs, err := loadPackages(f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				for _, p := range pkgs {
					fmt.Fprintf(out, "%-30s %-14s %s\n", p.Name, p.Type, p.AnnualFee.StringFixed(2))
				}
				return nil
			}

			repo, err := e.packages()
			if err != nil {
				return err
			}
			res, err := usecase.SeedPackages(cmd.Context(), repo, pkgs)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Paquetes creados: %d, actualizados: %d\n", res.Created, res.Updated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "packages.yaml", "archivo YAML de paquetes")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validar y listar sin escribir")
	return cmd
}
