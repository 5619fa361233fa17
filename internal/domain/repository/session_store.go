package repository

import (
	"context"
	"time"
)

// SessionStore almacén clave/valor de las sesiones de autenticación persistidas.
type SessionStore interface {
	// Load devuelve nil, nil si la clave no existe o expiró.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
