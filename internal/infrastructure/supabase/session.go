package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	pkgjwt "github.com/jhoicas/gncci-portal/pkg/jwt"
)

var _ repository.AuthGateway = (*AuthSession)(nil)

const (
	// refreshMargin anticipación con la que se renueva el access token.
	refreshMargin = 60 * time.Second
	// retryRefresh espera tras un fallo de red en la renovación automática.
	retryRefresh = 15 * time.Second
)

// AuthSessionOptions parámetros de una sesión de autenticación.
type AuthSessionOptions struct {
	StorageKey string        // prefijo de la clave persistida
	ID         string        // identificador de la sesión del navegador
	RedirectTo string        // destino de los enlaces de recuperación
	PersistTTL time.Duration // vigencia de la copia persistida
	Logger     zerolog.Logger
}

// AuthSession sesión con estado de un navegador: persiste la sesión en store,
// la renueva antes de expirar y notifica los cambios a los listeners.
type AuthSession struct {
	c    *Client
	st   repository.SessionStore
	opts AuthSessionOptions
	key  string
	log  zerolog.Logger
	now  func() time.Time

	mu        sync.Mutex
	session   *entity.Session
	restored  bool
	closed    bool
	timer     *time.Timer
	nextID    int
	listeners map[int]repository.AuthListener

	refreshMu sync.Mutex
}

// NewAuthSession crea la sesión sin tocar la red; la sesión persistida se restaura en GetSession.
func NewAuthSession(c *Client, st repository.SessionStore, opts AuthSessionOptions) *AuthSession {
	if opts.StorageKey == "" {
		opts.StorageKey = "gncci_auth"
	}
	if opts.PersistTTL <= 0 {
		opts.PersistTTL = 30 * 24 * time.Hour
	}
	return &AuthSession{
		c:         c,
		st:        st,
		opts:      opts,
		key:       opts.StorageKey + ":" + opts.ID,
		log:       opts.Logger,
		now:       time.Now,
		listeners: map[int]repository.AuthListener{},
	}
}

// StorageKey clave bajo la que se persiste la sesión.
func (s *AuthSession) StorageKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Rekey asocia la sesión al navegador id: la copia persistida pasa a la clave nueva
// y la anterior deja de servir para restaurarla.
func (s *AuthSession) Rekey(ctx context.Context, id string) {
	s.mu.Lock()
	old := s.key
	s.opts.ID = id
	s.key = s.opts.StorageKey + ":" + id
	key := s.key
	cur := s.session
	s.mu.Unlock()
	if s.st == nil || old == key {
		return
	}
	if err := s.st.Delete(ctx, old); err != nil {
		s.log.Warn().Err(err).Str("key", old).Msg("no se pudo borrar la sesión persistida anterior")
	}
	s.persist(ctx, cur)
}

// OnAuthStateChange registra fn hasta que se invoque la función devuelta.
func (s *AuthSession) OnAuthStateChange(fn repository.AuthListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *AuthSession) emit(event string, session *entity.Session) {
	s.mu.Lock()
	fns := make([]repository.AuthListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(event, session)
	}
}

// GetSession devuelve la sesión vigente. La primera llamada restaura la copia persistida
// (renovándola si expiró) y emite INITIAL_SESSION.
func (s *AuthSession) GetSession(ctx context.Context) (*entity.Session, error) {
	s.mu.Lock()
	if s.restored {
		cur := s.session
		s.mu.Unlock()
		if cur != nil && cur.Expired(s.now(), 0) {
			return s.refresh(ctx, cur.RefreshToken)
		}
		return cur, nil
	}
	s.mu.Unlock()

	restored, err := s.restore(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.restored {
		// Otra goroutine restauró primero.
		cur := s.session
		s.mu.Unlock()
		return cur, nil
	}
	s.restored = true
	s.session = restored
	s.mu.Unlock()

	if restored != nil {
		s.schedule(restored)
	}
	s.emit(repository.AuthInitialSession, restored)
	return restored, nil
}

func (s *AuthSession) restore(ctx context.Context) (*entity.Session, error) {
	if s.st == nil {
		return nil, nil
	}
	key := s.StorageKey()
	data, err := s.st.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var sess entity.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.AccessToken == "" {
		s.log.Warn().Str("key", key).Msg("sesión persistida ilegible, se descarta")
		_ = s.st.Delete(ctx, key)
		return nil, nil
	}
	claims, err := pkgjwt.ParseUnverified(sess.AccessToken)
	if err != nil {
		_ = s.st.Delete(ctx, key)
		return nil, nil
	}
	if sess.ExpiresAt == 0 && !claims.Expiry().IsZero() {
		sess.ExpiresAt = claims.Expiry().Unix()
	}
	if !sess.Expired(s.now(), 0) && s.c.jwtSecret != "" {
		if _, err := pkgjwt.Parse(s.c.jwtSecret, sess.AccessToken); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("firma de la sesión persistida inválida")
			_ = s.st.Delete(ctx, key)
			return nil, nil
		}
	}
	if !sess.Expired(s.now(), 0) {
		return &sess, nil
	}
	if sess.RefreshToken == "" {
		_ = s.st.Delete(ctx, key)
		return nil, nil
	}
	fresh, err := s.c.refreshSession(ctx, sess.RefreshToken)
	if err != nil {
		if IsNetwork(err) {
			return nil, err
		}
		_ = s.st.Delete(ctx, key)
		return nil, nil
	}
	s.persist(ctx, fresh)
	return fresh, nil
}

// SignInWithPassword autentica y adopta la sesión emitida.
func (s *AuthSession) SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	sess, err := s.c.signInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.adopt(ctx, sess)
	s.emit(repository.AuthSignedIn, sess)
	return sess, nil
}

// SignUp registra al usuario con los metadatos de perfil y rol. No adopta ninguna sesión,
// aunque el backend la devuelva: el acceso requiere verificar el email.
func (s *AuthSession) SignUp(ctx context.Context, email, password string, data repository.SignUpData) (*entity.Identity, error) {
	return s.c.signUp(ctx, email, password, map[string]any{
		"first_name": data.Profile.FirstName,
		"last_name":  data.Profile.LastName,
		"phone":      data.Profile.Phone,
		"role":       string(data.Role),
	})
}

// SignOut limpia la sesión local siempre y revoca el token en el backend.
func (s *AuthSession) SignOut(ctx context.Context) error {
	s.mu.Lock()
	cur := s.session
	s.session = nil
	s.restored = true
	s.stopTimerLocked()
	s.mu.Unlock()

	if s.st != nil {
		key := s.StorageKey()
		if err := s.st.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("no se pudo borrar la sesión persistida")
		}
	}
	s.emit(repository.AuthSignedOut, nil)

	if cur == nil {
		return nil
	}
	err := s.c.logout(ctx, cur.AccessToken)
	if err != nil && (errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNotFound)) {
		// El token ya no era válido en el backend.
		return nil
	}
	return err
}

// ResetPasswordForEmail solicita el enlace de recuperación.
func (s *AuthSession) ResetPasswordForEmail(ctx context.Context, email string) error {
	return s.c.recover(ctx, email, s.opts.RedirectTo)
}

// UpdatePassword cambia la contraseña del usuario de la sesión actual.
func (s *AuthSession) UpdatePassword(ctx context.Context, password string) (*entity.Identity, error) {
	tok := s.AccessToken(ctx)
	if tok == "" {
		return nil, domain.ErrNotAuthenticated
	}
	u, err := s.c.updateUser(ctx, tok, map[string]string{"password": password})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	var updated *entity.Session
	if s.session != nil {
		cp := *s.session
		cp.User = *u
		s.session = &cp
		updated = &cp
	}
	s.mu.Unlock()
	if updated != nil {
		s.persist(ctx, updated)
		s.emit(repository.AuthUserUpdated, updated)
	}
	return u, nil
}

// AccessToken devuelve el token vigente, renovándolo si está por expirar. "" sin sesión.
func (s *AuthSession) AccessToken(ctx context.Context) string {
	sess, err := s.GetSession(ctx)
	if err != nil || sess == nil {
		return ""
	}
	if sess.Expired(s.now(), 10*time.Second) {
		fresh, err := s.refresh(ctx, sess.RefreshToken)
		if err != nil || fresh == nil {
			return ""
		}
		return fresh.AccessToken
	}
	return sess.AccessToken
}

// Close detiene la renovación automática y da de baja a todos los listeners.
func (s *AuthSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
	s.listeners = map[int]repository.AuthListener{}
}

func (s *AuthSession) adopt(ctx context.Context, sess *entity.Session) {
	s.mu.Lock()
	s.session = sess
	s.restored = true
	s.mu.Unlock()
	s.persist(ctx, sess)
	s.schedule(sess)
}

func (s *AuthSession) persist(ctx context.Context, sess *entity.Session) {
	if s.st == nil || sess == nil {
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	key := s.StorageKey()
	if err := s.st.Save(ctx, key, data, s.opts.PersistTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("no se pudo persistir la sesión")
	}
}

// refresh renueva con refreshToken. Si otra goroutine ya renovó, devuelve esa sesión.
func (s *AuthSession) refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.Lock()
	cur := s.session
	s.mu.Unlock()
	if cur == nil {
		return nil, nil
	}
	if cur.RefreshToken != refreshToken && !cur.Expired(s.now(), 10*time.Second) {
		return cur, nil
	}

	fresh, err := s.c.refreshSession(ctx, cur.RefreshToken)
	if err != nil {
		if IsNetwork(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.log.Info().Err(err).Str("key", s.StorageKey()).Msg("renovación rechazada, se cierra la sesión")
		s.clearLocal(ctx)
		return nil, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fresh, nil
	}
	s.session = fresh
	s.mu.Unlock()
	s.persist(ctx, fresh)
	s.schedule(fresh)
	s.emit(repository.AuthTokenRefreshed, fresh)
	return fresh, nil
}

func (s *AuthSession) clearLocal(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.stopTimerLocked()
	s.mu.Unlock()
	if s.st != nil {
		_ = s.st.Delete(ctx, s.StorageKey())
	}
	s.emit(repository.AuthSignedOut, nil)
}

func (s *AuthSession) schedule(sess *entity.Session) {
	exp := sess.Expiry()
	if exp.IsZero() {
		return
	}
	wait := exp.Sub(s.now()) - refreshMargin
	if wait < time.Second {
		wait = time.Second
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	token := sess.RefreshToken
	s.timer = time.AfterFunc(wait, func() { s.autoRefresh(token) })
}

func (s *AuthSession) autoRefresh(refreshToken string) {
	timeout := s.c.http.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := s.refresh(ctx, refreshToken); err != nil {
		s.log.Warn().Err(err).Str("key", s.StorageKey()).Msg("renovación automática fallida, se reintenta")
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.closed && s.session != nil {
			s.timer = time.AfterFunc(retryRefresh, func() { s.autoRefresh(refreshToken) })
		}
	}
}

func (s *AuthSession) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
