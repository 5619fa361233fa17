// admin es el CLI de operación del portal: carga de paquetes de membresía y alta de
// administradores contra el backend, con la credencial de servicio.
//
// Uso:
//
//	go run ./cmd/admin seed-packages --file packages.yaml
//	go run ./cmd/admin create-user --email ops@gncci.org --role admin
//	go run ./cmd/admin set-role <user-id> member
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return newRootCmd(&env{}).ExecuteContext(ctx)
}
