package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gncci-portal/internal/domain"
)

// mapError traduce errores de pgx a los errores de dominio, conservando la causa.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501": // insufficient_privilege
			return fmt.Errorf("%s: %w: %s", op, domain.ErrForbidden, pgErr.Message)
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicate, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrNetwork, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
