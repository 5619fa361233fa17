package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

type createUserInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=30"`
	Role      string `json:"role" validate:"required,oneof=admin member non-member"`
}

func newCreateUserCmd(e *env) *cobra.Command {
	var in createUserInput
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Crea un usuario con el email ya confirmado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Email = strings.TrimSpace(in.Email)
			in.Role = strings.ToLower(strings.TrimSpace(in.Role))
			if err := validation.Struct(in); err != nil {
				return err
			}
			admin, err := e.users()
			if err != nil {
				return err
			}
			u, err := admin.CreateUser(cmd.Context(), repository.NewUser{
				Email:    in.Email,
				Password: in.Password,
				Profile:  entity.UserProfile{FirstName: in.FirstName, LastName: in.LastName, Phone: in.Phone},
				Role:     entity.ParseRole(in.Role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Usuario %s creado (%s) con rol %s\n", u.Email, u.ID, in.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del usuario")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña inicial (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "nombre")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "apellido")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono")
	cmd.Flags().StringVar(&in.Role, "role", string(entity.RoleAdmin), "admin | member | non-member")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSetRoleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Cambia el rol de un usuario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("user-id inválido: %q", args[0])
			}
			role := entity.Role(strings.ToLower(strings.TrimSpace(args[1])))
			if !role.Valid() {
				return fmt.Errorf("rol inválido %q (admin | member | non-member)", args[1])
			}
			admin, err := e.users()
			if err != nil {
				return err
			}
			if _, err := admin.UpdateRole(cmd.Context(), args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rol de %s actualizado a %s\n", args[0], role)
			return nil
		},
	}
}
