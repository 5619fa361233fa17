package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/application/auth"
	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

// fakeGateway gateway en memoria que emite eventos como el backend.
type fakeGateway struct {
	mu        sync.Mutex
	session   *entity.Session
	listeners map[int]repository.AuthListener
	next      int

	signInErr  error
	signOutErr error
	signUps    []repository.SignUpData
	returnSess *entity.Session
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{listeners: map[int]repository.AuthListener{}}
}

func (g *fakeGateway) emit(event string, s *entity.Session) {
	g.mu.Lock()
	fns := make([]repository.AuthListener, 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(event, s)
	}
}

func (g *fakeGateway) GetSession(context.Context) (*entity.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, nil
}

func (g *fakeGateway) OnAuthStateChange(fn repository.AuthListener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *fakeGateway) subscribers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.listeners)
}

func (g *fakeGateway) SignInWithPassword(_ context.Context, email, _ string) (*entity.Session, error) {
	if g.signInErr != nil {
		return nil, g.signInErr
	}
	s := &entity.Session{AccessToken: "tok", User: entity.Identity{ID: "u1", Email: email}}
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
	g.emit(repository.AuthSignedIn, s)
	return s, nil
}

func (g *fakeGateway) SignUp(_ context.Context, email, _ string, data repository.SignUpData) (*entity.Identity, error) {
	g.signUps = append(g.signUps, data)
	return &entity.Identity{ID: "u2", Email: email}, nil
}

func (g *fakeGateway) SignOut(context.Context) error {
	g.mu.Lock()
	g.session = nil
	g.mu.Unlock()
	g.emit(repository.AuthSignedOut, nil)
	return g.signOutErr
}

func (g *fakeGateway) ResetPasswordForEmail(context.Context, string) error { return nil }

func (g *fakeGateway) UpdatePassword(context.Context, string) (*entity.Identity, error) {
	return &entity.Identity{ID: "u1"}, nil
}

func (g *fakeGateway) AccessToken(context.Context) string { return "" }

func (g *fakeGateway) Close() {}

func newHolder(g *fakeGateway) (*auth.SessionHolder, *notify.Flash) {
	f := notify.NewFlash(0)
	return auth.NewSessionHolder(g, f, zerolog.Nop()), f
}

func TestSessionHolder_AttachSinSesionQuedaUnauthenticated(t *testing.T) {
	g := newFakeGateway()
	h, _ := newHolder(g)
	assert.Equal(t, auth.StateLoading, h.Snapshot().State)

	require.NoError(t, h.Attach(context.Background()))

	assert.Equal(t, auth.StateUnauthenticated, h.Snapshot().State)
	assert.Equal(t, 1, g.subscribers())
}

func TestSessionHolder_AttachConSesionDerivaUsuarioConRol(t *testing.T) {
	g := newFakeGateway()
	g.session = &entity.Session{User: entity.Identity{ID: "u1", UserMetadata: map[string]any{"role": "admin"}}}
	h, _ := newHolder(g)

	require.NoError(t, h.Attach(context.Background()))

	snap := h.Snapshot()
	assert.Equal(t, auth.StateAuthenticated, snap.State)
	assert.True(t, snap.IsAdmin())
}

func TestSessionHolder_SignInSinMetadataEsNonMember(t *testing.T) {
	g := newFakeGateway()
	h, f := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))

	u, err := h.SignIn(context.Background(), " ama@example.com ", "secret")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleNonMember, u.Role)
	assert.Equal(t, "ama@example.com", u.Email)
	assert.Equal(t, auth.StateAuthenticated, h.Snapshot().State)
	msgs := f.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, auth.MsgSignedIn, msgs[0].Message)
}

func TestSessionHolder_SignInFallidoAvisaYDevuelveError(t *testing.T) {
	g := newFakeGateway()
	g.signInErr = errors.New("Invalid login credentials")
	h, f := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))

	_, err := h.SignIn(context.Background(), "ama@example.com", "mal")

	assert.EqualError(t, err, "Invalid login credentials")
	assert.Equal(t, auth.StateUnauthenticated, h.Snapshot().State)
	msgs := f.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
	assert.Equal(t, "Invalid login credentials", msgs[0].Message)
}

func TestSessionHolder_SignUpNoAutentica(t *testing.T) {
	g := newFakeGateway()
	h, f := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))

	_, err := h.SignUp(context.Background(), "new@example.com", "secret", entity.UserProfile{FirstName: "Kofi"})
	require.NoError(t, err)

	assert.Equal(t, auth.StateUnauthenticated, h.Snapshot().State)
	require.Len(t, g.signUps, 1)
	assert.Equal(t, entity.RoleNonMember, g.signUps[0].Role)
	assert.Equal(t, "Kofi", g.signUps[0].Profile.FirstName)
	assert.Equal(t, auth.MsgSignedUp, f.Drain()[0].Message)
}

func TestSessionHolder_SignOutLimpiaAunqueFalleElBackend(t *testing.T) {
	g := newFakeGateway()
	h, f := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))
	_, err := h.SignIn(context.Background(), "ama@example.com", "secret")
	require.NoError(t, err)
	f.Drain()

	g.signOutErr = domain.ErrNetwork
	err = h.SignOut(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, auth.StateUnauthenticated, h.Snapshot().State)
	assert.Equal(t, "Network error - please check your connection", f.Drain()[0].Message)
}

func TestSessionHolder_EventosDelGatewayActualizanEstado(t *testing.T) {
	g := newFakeGateway()
	h, _ := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))
	var changes []auth.State
	h.OnChange(func(s auth.Snapshot) { changes = append(changes, s.State) })

	g.emit(repository.AuthSignedIn, &entity.Session{User: entity.Identity{ID: "u9"}})
	g.emit(repository.AuthTokenRefreshed, &entity.Session{User: entity.Identity{ID: "u9"}})
	g.emit(repository.AuthSignedOut, nil)

	assert.Equal(t, []auth.State{auth.StateAuthenticated, auth.StateUnauthenticated}, changes,
		"renovar el token sin cambiar de usuario no se notifica")
}

func TestSessionHolder_DetachCancelaSuscripcion(t *testing.T) {
	g := newFakeGateway()
	h, _ := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))

	h.Detach()
	h.Detach()

	assert.Equal(t, 0, g.subscribers())
	g.emit(repository.AuthSignedIn, &entity.Session{User: entity.Identity{ID: "u9"}})
	assert.Equal(t, auth.StateUnauthenticated, h.Snapshot().State)
}

func TestSessionHolder_ResetPasswordSinSesion(t *testing.T) {
	g := newFakeGateway()
	h, _ := newHolder(g)
	require.NoError(t, h.Attach(context.Background()))

	assert.ErrorIs(t, h.ResetPassword(context.Background(), "nueva"), domain.ErrNotAuthenticated)
}
