package sessionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"

	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.SessionStore = (*Redis)(nil)

// RedisOptions conexión al servidor Redis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis almacén compartido entre instancias del portal.
type Redis struct {
	client *redis.Client
}

// NewRedis abre el cliente y verifica la conexión.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.WithContext(ctx).Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisFromClient envuelve un cliente ya construido.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.WithContext(ctx).Get(key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (r *Redis) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := r.client.WithContext(ctx).Set(key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.WithContext(ctx).Del(key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close cierra el cliente.
func (r *Redis) Close() error { return r.client.Close() }
