// Package query implementa la caché de lecturas por sesión: claves {entidad, ámbito},
// vigencia configurable, reintentos acotados y suscriptores que se avisan al invalidar.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/gncci-portal/internal/domain"
)

// Status estado de una lectura.
type Status int

const (
	Pending Status = iota
	Skipped
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Key identifica una lectura. Scope vacío representa el listado de la entidad.
type Key struct {
	Entity string
	Scope  string
}

// EntityKey clave sin ámbito.
func EntityKey(entity string) Key { return Key{Entity: entity} }

// ScopedKey clave de una entidad concreta.
func ScopedKey(entity, scope string) Key { return Key{Entity: entity, Scope: scope} }

func (k Key) String() string {
	if k.Scope == "" {
		return k.Entity
	}
	return k.Entity + "/" + k.Scope
}

// Result resultado de una lectura. Con Failed, Data conserva el último valor cargado (si lo hubo).
type Result[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

// Ok indica si hay datos utilizables.
func (r Result[T]) Ok() bool { return r.Status == Loaded }

// Options parámetros de una lectura.
type Options struct {
	StaleTime  time.Duration // 0: siempre se vuelve a pedir
	Retries    int           // reintentos tras el primer intento
	RetryDelay time.Duration // espera base; crece linealmente por intento
}

type entry struct {
	data    any
	hasData bool
	err     error
	updated time.Time
	stale   bool
	gen     uint64
}

// Cache caché de una sesión del portal. Segura para uso concurrente.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	subs    map[Key]map[int]func(Key)
	nextSub int

	group   singleflight.Group
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// DefaultTimeout límite de una petición compartida (reintentos incluidos).
const DefaultTimeout = 30 * time.Second

// Option configura la caché.
type Option func(*Cache)

// WithLogger registra fallos e invalidaciones en debug.
func WithLogger(l zerolog.Logger) Option { return func(c *Cache) { c.log = l } }

// WithTimeout fija el límite de cada petición compartida.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// New construye una caché vacía.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: map[Key]*entry{},
		subs:    map[Key]map[int]func(Key){},
		timeout: DefaultTimeout,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fetch resuelve la lectura key. Con enabled=false no se llama a fn y el resultado es Skipped.
// Si hay datos vigentes se devuelven sin ir a la red; lecturas concurrentes de la misma clave
// comparten una sola petición.
func Fetch[T any](ctx context.Context, c *Cache, key Key, opts Options, enabled bool, fn func(context.Context) (T, error)) Result[T] {
	if !enabled {
		return Result[T]{Status: Skipped}
	}
	if r, ok := fresh[T](c, key, opts.StaleTime); ok {
		return r
	}

	ch := c.group.DoChan(key.String(), func() (any, error) {
		return c.load(ctx, key, opts, func(ctx context.Context) (any, error) { return fn(ctx) })
	})
	select {
	case <-ctx.Done():
		// Solo abandona este lector: la petición compartida sigue y su resultado queda en caché.
		return failed[T](c, key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return failed[T](c, key, res.Err)
		}
		l, _ := res.Val.(loaded)
		data, _ := l.data.(T)
		return Result[T]{Status: Loaded, Data: data, UpdatedAt: l.at}
	}
}

type loaded struct {
	data any
	at   time.Time
}

// load ejecuta la petición compartida de key y guarda el resultado. Corre con un contexto
// propio (sin la cancelación del primer lector) acotado por el timeout de la caché.
func (c *Cache) load(ctx context.Context, key Key, opts Options, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	gen := c.entryLocked(key).gen
	c.mu.Unlock()

	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	v, err := c.attempt(lctx, key, opts, fn)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	if err != nil {
		if e.gen == gen {
			e.err = err
		}
		c.log.Debug().Err(err).Str("key", key.String()).Msg("lectura fallida")
		return nil, err
	}
	now := c.now()
	// Si se invalidó mientras la petición estaba en vuelo, el valor se devuelve pero queda obsoleto.
	if e.gen == gen {
		e.data, e.hasData, e.err, e.updated, e.stale = v, true, nil, now, false
	}
	return loaded{data: v, at: now}, nil
}

// failed resultado fallido de key; conserva el último valor cargado si lo hay.
func failed[T any](c *Cache, key Key, err error) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := Result[T]{Status: Failed, Err: err}
	if e, ok := c.entries[key]; ok {
		r.UpdatedAt = e.updated
		if prev, ok := e.data.(T); ok && e.hasData {
			r.Data = prev
		}
	}
	return r
}

// Peek devuelve lo que hay en caché para key sin ir a la red. Pending si no hay nada.
func Peek[T any](c *Cache, key Key) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Result[T]{Status: Pending}
	}
	r := Result[T]{Status: Pending, Err: e.err, UpdatedAt: e.updated}
	if v, ok := e.data.(T); ok && e.hasData {
		r.Data = v
		r.Status = Loaded
	}
	if e.err != nil {
		r.Status = Failed
	}
	return r
}

func fresh[T any](c *Cache, key Key, staleTime time.Duration) (Result[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.hasData || e.stale || e.err != nil || staleTime <= 0 {
		return Result[T]{}, false
	}
	if c.now().Sub(e.updated) >= staleTime {
		return Result[T]{}, false
	}
	v, ok := e.data.(T)
	if !ok {
		return Result[T]{}, false
	}
	return Result[T]{Status: Loaded, Data: v, UpdatedAt: e.updated}, true
}

func (c *Cache) attempt(ctx context.Context, key Key, opts Options, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	for i := 0; i <= opts.Retries; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, opts.RetryDelay*time.Duration(i)); err != nil {
				return nil, err
			}
			c.log.Debug().Err(lastErr).Str("key", key.String()).Int("attempt", i+1).Msg("reintentando lectura")
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
	}
	return nil, lastErr
}

// Retryable indica si un error de lectura es transitorio. Los errores que describen el
// estado del recurso o de los permisos no cambian al repetir la petición.
func Retryable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrMissingConfig):
		return false
	}
	return true
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Invalidate marca como obsoletas las lecturas que coinciden con key y avisa a sus suscriptores.
// Una clave sin ámbito alcanza a todas las lecturas de la entidad; con ámbito, solo a esa.
func (c *Cache) Invalidate(keys ...Key) {
	var notify []func(Key)
	var hit []Key
	c.mu.Lock()
	for _, key := range keys {
		for k, e := range c.entries {
			if !matches(key, k) {
				continue
			}
			e.stale = true
			e.gen++
			c.group.Forget(k.String())
		}
		for k, subs := range c.subs {
			if !matches(key, k) {
				continue
			}
			for _, fn := range subs {
				notify = append(notify, fn)
				hit = append(hit, k)
			}
		}
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.log.Debug().Str("key", key.String()).Msg("caché invalidada")
	}
	for i, fn := range notify {
		fn(hit[i])
	}
}

func matches(pattern, k Key) bool {
	if pattern.Entity != k.Entity {
		return false
	}
	return pattern.Scope == "" || pattern.Scope == k.Scope
}

// Stale indica si key tiene datos marcados como obsoletos (o no tiene datos).
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return !ok || !e.hasData || e.stale
}

// Subscribe registra fn para las invalidaciones que alcancen key, hasta invocar la función devuelta.
func (c *Cache) Subscribe(key Key, fn func(Key)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	if c.subs[key] == nil {
		c.subs[key] = map[int]func(Key){}
	}
	c.subs[key][id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs[key], id)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
		})
	}
}

// Clear descarta todos los datos (los suscriptores se conservan). Se usa al cerrar sesión.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		c.group.Forget(k.String())
		c.entries[k] = &entry{gen: e.gen + 1}
	}
}
