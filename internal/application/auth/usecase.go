package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

// State estado de autenticación de una sesión del portal.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

// Snapshot vista inmutable del estado.
type Snapshot struct {
	State   State
	User    *entity.User
	Session *entity.Session
}

// Authenticated indica si hay usuario.
func (s Snapshot) Authenticated() bool { return s.State == StateAuthenticated && s.User != nil }

// IsAdmin indica si el usuario autenticado es administrador.
func (s Snapshot) IsAdmin() bool { return s.Authenticated() && s.User.IsAdmin() }

// Mensajes de éxito de las operaciones de autenticación.
const (
	MsgSignedIn      = "Successfully signed in!"
	MsgSignedUp      = "Registration successful! Please verify your email."
	MsgSignedOut     = "Successfully signed out!"
	MsgResetSent     = "Password reset link sent to your email!"
	MsgPasswordReset = "Password has been updated!"
)

// SessionHolder máquina de estados de autenticación de una sesión del navegador.
// Se suscribe a los cambios de sesión del gateway entre Attach y Detach.
type SessionHolder struct {
	gw  repository.AuthGateway
	n   notify.Notifier
	log zerolog.Logger

	mu          sync.RWMutex
	snap        Snapshot
	unsubscribe func()
	nextWatch   int
	watchers    map[int]func(Snapshot)
}

// NewSessionHolder construye el holder en estado loading.
func NewSessionHolder(gw repository.AuthGateway, n notify.Notifier, log zerolog.Logger) *SessionHolder {
	if n == nil {
		n = notify.Nop()
	}
	return &SessionHolder{
		gw:       gw,
		n:        n,
		log:      log,
		snap:     Snapshot{State: StateLoading},
		watchers: map[int]func(Snapshot){},
	}
}

// Attach se suscribe a los cambios de sesión y resuelve la sesión actual.
// Siempre sale de loading: ante un error queda unauthenticated y devuelve el error.
func (h *SessionHolder) Attach(ctx context.Context) error {
	h.mu.Lock()
	if h.unsubscribe == nil {
		h.unsubscribe = h.gw.OnAuthStateChange(h.onAuthEvent)
	}
	h.mu.Unlock()

	sess, err := h.gw.GetSession(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("no se pudo obtener la sesión actual")
		h.set(nil)
		return err
	}
	h.set(sess)
	return nil
}

// Detach cancela la suscripción. Es idempotente.
func (h *SessionHolder) Detach() {
	h.mu.Lock()
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.watchers = map[int]func(Snapshot){}
	h.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (h *SessionHolder) onAuthEvent(event string, sess *entity.Session) {
	h.log.Debug().Str("event", event).Bool("session", sess != nil).Msg("cambio de sesión")
	h.set(sess)
}

func (h *SessionHolder) set(sess *entity.Session) {
	next := Snapshot{State: StateUnauthenticated}
	if sess != nil {
		u := entity.UserFromIdentity(sess.User)
		next = Snapshot{State: StateAuthenticated, User: &u, Session: sess}
	}
	h.mu.Lock()
	prev := h.snap
	h.snap = next
	fns := make([]func(Snapshot), 0, len(h.watchers))
	for _, fn := range h.watchers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	if prev.State == next.State && sameUser(prev.User, next.User) {
		return
	}
	for _, fn := range fns {
		fn(next)
	}
}

func sameUser(a, b *entity.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Role == b.Role
}

// Snapshot estado actual.
func (h *SessionHolder) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// OnChange registra fn para cada cambio de usuario o de estado.
func (h *SessionHolder) OnChange(fn func(Snapshot)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextWatch
	h.nextWatch++
	h.watchers[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.watchers, id)
	}
}

// SignIn autentica con email y contraseña.
func (h *SessionHolder) SignIn(ctx context.Context, email, password string) (*entity.User, error) {
	sess, err := h.gw.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, notify.Fail(h.n, err)
	}
	h.set(sess)
	h.n.Success(MsgSignedIn)
	return h.Snapshot().User, nil
}

// SignUp registra al usuario con rol non-member. No autentica: el acceso requiere verificar el email.
func (h *SessionHolder) SignUp(ctx context.Context, email, password string, profile entity.UserProfile) (*entity.Identity, error) {
	id, err := h.gw.SignUp(ctx, strings.TrimSpace(email), password, repository.SignUpData{
		Profile: profile,
		Role:    entity.RoleNonMember,
	})
	if err != nil {
		return nil, notify.Fail(h.n, err)
	}
	h.n.Success(MsgSignedUp)
	return id, nil
}

// SignOut cierra la sesión. El estado local queda limpio aunque el backend falle.
func (h *SessionHolder) SignOut(ctx context.Context) error {
	err := h.gw.SignOut(ctx)
	h.set(nil)
	if err != nil {
		return notify.Fail(h.n, err)
	}
	h.n.Success(MsgSignedOut)
	return nil
}

// ForgotPassword solicita el enlace de recuperación.
func (h *SessionHolder) ForgotPassword(ctx context.Context, email string) error {
	if err := h.gw.ResetPasswordForEmail(ctx, strings.TrimSpace(email)); err != nil {
		return notify.Fail(h.n, err)
	}
	h.n.Success(MsgResetSent)
	return nil
}

// ResetPassword cambia la contraseña de la sesión actual.
func (h *SessionHolder) ResetPassword(ctx context.Context, password string) error {
	if !h.Snapshot().Authenticated() {
		return notify.Fail(h.n, domain.ErrNotAuthenticated)
	}
	if _, err := h.gw.UpdatePassword(ctx, password); err != nil {
		return notify.Fail(h.n, err)
	}
	h.n.Success(MsgPasswordReset)
	return nil
}
