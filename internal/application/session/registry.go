// Package session mantiene las sesiones del portal: una por navegador, cada una con su
// autenticación, su caché de lecturas y su cola de avisos.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/auth"
	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/secretbox"
)

// TokenSource token con el que se ejecutan las consultas de una sesión.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Rekeyer lo implementan los gateways que persisten la sesión bajo el id del navegador.
type Rekeyer interface {
	Rekey(ctx context.Context, id string)
}

// Backend fábrica de los adaptadores de una sesión.
type Backend interface {
	// NewGateway sesión de autenticación del navegador id.
	NewGateway(id string) repository.AuthGateway
	// Repositories repositorios que consultan con los tokens de tokens.
	Repositories(tokens TokenSource) usecase.Repositories
}

// Session estado de un navegador.
type Session struct {
	Auth   *auth.SessionHolder
	Flash  *notify.Flash
	Portal *usecase.Portal

	gw       repository.AuthGateway
	cache    *query.Cache
	stop     func()
	mu       sync.Mutex
	id       string
	lastSeen time.Time
}

// ID identificador de la sesión (valor de la cookie). Cambia al iniciar sesión.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Cache caché de lecturas de la sesión.
func (s *Session) Cache() *query.Cache { return s.cache }

// User usuario autenticado o nil.
func (s *Session) User() *entity.User { return s.Auth.Snapshot().User }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.stop()
	s.Auth.Detach()
	s.gw.Close()
}

// Options parámetros del registro.
type Options struct {
	IdleTTL      time.Duration
	FlashSize    int
	FetchTimeout time.Duration        // límite de cada lectura compartida de la caché
	UserAdmin    repository.UserAdmin // nil sin credencial de servicio
	Box          *secretbox.Box
	Logger       zerolog.Logger
}

// Registry sesiones vivas indexadas por el id de la cookie.
type Registry struct {
	backend Backend
	opts    Options
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry construye el registro vacío.
func NewRegistry(b Backend, opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	if opts.FlashSize <= 0 {
		opts.FlashSize = notify.DefaultFlashCapacity
	}
	return &Registry{
		backend:  b,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "sessions").Logger(),
		now:      time.Now,
		sessions: map[string]*Session{},
	}
}

// Get devuelve la sesión id o crea una nueva si no existe. id llega descifrado de la
// cookie, por lo que un id desconocido solo puede ser uno emitido antes por el servidor.
// created indica que hay que emitir la cookie.
func (r *Registry) Get(ctx context.Context, id string) (s *Session, created bool) {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok && id != "" {
		r.mu.Unlock()
		s.touch(r.now())
		return s, false
	}
	r.mu.Unlock()

	s = r.build(ctx, id)

	sid := s.id
	r.mu.Lock()
	if existing, ok := r.sessions[sid]; ok {
		// Otra petición con la misma cookie ganó la carrera.
		r.mu.Unlock()
		s.close()
		existing.touch(r.now())
		return existing, false
	}
	r.sessions[sid] = s
	r.mu.Unlock()
	return s, id != sid
}

// Rotate asigna a s un id nuevo y devuelve ese id. Se llama al autenticarse: el id
// anterior deja de resolver a esta sesión y de restaurar su autenticación.
func (r *Registry) Rotate(ctx context.Context, s *Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	s.mu.Lock()
	old := s.id
	s.id = id
	s.mu.Unlock()
	if cur, ok := r.sessions[old]; ok && cur == s {
		delete(r.sessions, old)
	}
	r.sessions[id] = s
	r.mu.Unlock()

	if rk, ok := s.gw.(Rekeyer); ok {
		rk.Rekey(ctx, id)
	}
	r.log.Debug().Str("session", id[:8]).Msg("id de sesión rotado")
	return id
}

// build arranca la sesión: restaura la autenticación persistida si la hay.
func (r *Registry) build(ctx context.Context, id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	log := r.log.With().Str("session", id[:8]).Logger()
	flash := notify.NewFlash(r.opts.FlashSize)
	n := notify.Multi(flash, notify.NewLog(log))
	cache := query.New(query.WithLogger(log), query.WithTimeout(r.opts.FetchTimeout))
	gw := r.backend.NewGateway(id)
	holder := auth.NewSessionHolder(gw, n, log)

	s := &Session{id: id, Auth: holder, Flash: flash, gw: gw, cache: cache, lastSeen: r.now()}
	s.Portal = usecase.NewPortal(usecase.Deps{
		Cache:       cache,
		Notifier:    n,
		CurrentUser: s.User,
		Log:         log,
	}, r.backend.Repositories(gw), r.opts.UserAdmin, r.opts.Box)

	if err := holder.Attach(ctx); err != nil {
		log.Warn().Err(err).Msg("sesión iniciada sin autenticación")
	}
	// Cualquier cambio de usuario descarta lo leído con los permisos anteriores.
	s.stop = holder.OnChange(func(auth.Snapshot) { cache.Clear() })
	return s
}

// Lookup devuelve la sesión id sin crearla.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove cierra y descarta la sesión id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.close()
	}
}

// Len número de sesiones vivas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep cierra las sesiones sin actividad desde hace más de IdleTTL. La sesión de
// autenticación persistida se conserva: el navegador la recupera con la misma cookie.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.opts.IdleTTL)
	var idle []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, s := range idle {
		s.close()
	}
	if len(idle) > 0 {
		r.log.Debug().Int("closed", len(idle)).Int("alive", r.Len()).Msg("sesiones inactivas cerradas")
	}
	return len(idle)
}

// Run ejecuta Sweep cada interval hasta que ctx termine.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// Close cierra todas las sesiones.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
