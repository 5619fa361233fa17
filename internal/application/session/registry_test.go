package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

type stubGateway struct {
	mu        sync.Mutex
	session   *entity.Session
	listeners map[int]repository.AuthListener
	next      int
	closed    bool
	rekeyedTo string
}

func (g *stubGateway) Rekey(_ context.Context, id string) {
	g.mu.Lock()
	g.rekeyedTo = id
	g.mu.Unlock()
}

func (g *stubGateway) emit(event string, s *entity.Session) {
	g.mu.Lock()
	g.session = s
	fns := make([]repository.AuthListener, 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(event, s)
	}
}

func (g *stubGateway) GetSession(context.Context) (*entity.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, nil
}

func (g *stubGateway) OnAuthStateChange(fn repository.AuthListener) func() {
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

func (g *stubGateway) SignInWithPassword(_ context.Context, email, _ string) (*entity.Session, error) {
	s := &entity.Session{AccessToken: "tok", User: entity.Identity{ID: "u1", Email: email}}
	g.emit(repository.AuthSignedIn, s)
	return s, nil
}

func (g *stubGateway) SignUp(context.Context, string, string, repository.SignUpData) (*entity.Identity, error) {
	return &entity.Identity{}, nil
}

func (g *stubGateway) SignOut(context.Context) error {
	g.emit(repository.AuthSignedOut, nil)
	return nil
}

func (g *stubGateway) ResetPasswordForEmail(context.Context, string) error { return nil }
func (g *stubGateway) UpdatePassword(context.Context, string) (*entity.Identity, error) {
	return &entity.Identity{}, nil
}
func (g *stubGateway) AccessToken(context.Context) string { return "" }

func (g *stubGateway) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

type stubBackend struct {
	mu       sync.Mutex
	gateways map[string]*stubGateway
}

func (b *stubBackend) NewGateway(id string) repository.AuthGateway {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := &stubGateway{listeners: map[int]repository.AuthListener{}}
	b.gateways[id] = g
	return g
}

func (b *stubBackend) Repositories(TokenSource) usecase.Repositories { return usecase.Repositories{} }

func newTestRegistry(ttl time.Duration) (*Registry, *stubBackend, *time.Time) {
	b := &stubBackend{gateways: map[string]*stubGateway{}}
	r := NewRegistry(b, Options{IdleTTL: ttl, Logger: zerolog.Nop()})
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return r, b, &now
}

func TestRegistry_GetCreaSesionConIDNuevo(t *testing.T) {
	r, _, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	s, created := r.Get(ctx, "")
	require.True(t, created)
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.False(t, s.Auth.Snapshot().Authenticated())

	again, created := r.Get(ctx, s.ID())
	assert.False(t, created)
	assert.Same(t, s, again)

	forged, created := r.Get(ctx, "../../etc/passwd")
	assert.True(t, created)
	assert.NotEqual(t, "../../etc/passwd", forged.ID())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_CookieConocidaPeroNoRegistradaConservaElID(t *testing.T) {
	r, _, _ := newTestRegistry(time.Hour)
	id := uuid.NewString()

	s, created := r.Get(context.Background(), id)

	assert.False(t, created, "el navegador ya tiene la cookie")
	assert.Equal(t, id, s.ID())
}

func TestRegistry_CerrarSesionVaciaLaCache(t *testing.T) {
	r, _, _ := newTestRegistry(time.Hour)
	ctx := context.Background()
	s, _ := r.Get(ctx, "")

	_, err := s.Auth.SignIn(ctx, "ama@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, s.User())

	key := query.EntityKey(usecase.KeyCompanies)
	query.Fetch(ctx, s.Cache(), key, query.Options{}, true, func(context.Context) (int, error) { return 7, nil })
	require.Equal(t, query.Loaded, query.Peek[int](s.Cache(), key).Status)

	require.NoError(t, s.Auth.SignOut(ctx))

	assert.Equal(t, query.Pending, query.Peek[int](s.Cache(), key).Status)
	assert.Nil(t, s.User())
}

func TestRegistry_SweepCierraSesionesInactivas(t *testing.T) {
	r, b, now := newTestRegistry(30 * time.Minute)
	ctx := context.Background()

	old, _ := r.Get(ctx, "")
	*now = now.Add(20 * time.Minute)
	fresh, _ := r.Get(ctx, "")
	*now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep())

	_, ok := r.Lookup(old.ID())
	assert.False(t, ok)
	_, ok = r.Lookup(fresh.ID())
	assert.True(t, ok)
	assert.True(t, b.gateways[old.ID()].closed)
	assert.False(t, b.gateways[fresh.ID()].closed)
}

func TestRegistry_RemoveYClose(t *testing.T) {
	r, b, _ := newTestRegistry(time.Hour)
	ctx := context.Background()
	a, _ := r.Get(ctx, "")
	c, _ := r.Get(ctx, "")

	r.Remove(a.ID())
	r.Remove(a.ID())
	assert.Equal(t, 1, r.Len())
	assert.True(t, b.gateways[a.ID()].closed)

	r.Close()
	assert.Zero(t, r.Len())
	assert.True(t, b.gateways[c.ID()].closed)
}

func TestRegistry_RotateCambiaElIDAlAutenticarse(t *testing.T) {
	r, b, _ := newTestRegistry(time.Hour)
	ctx := context.Background()
	s, _ := r.Get(ctx, "")
	old := s.ID()
	gw := b.gateways[old]
	_, err := s.Auth.SignIn(ctx, "ama@example.com", "pw")
	require.NoError(t, err)

	id := r.Rotate(ctx, s)

	assert.NotEqual(t, old, id)
	assert.Equal(t, id, s.ID())
	assert.Equal(t, id, gw.rekeyedTo, "la sesión persistida sigue al id nuevo")
	got, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Same(t, s, got)
	_, ok = r.Lookup(old)
	assert.False(t, ok)

	// Quien conserve el id anterior obtiene una sesión distinta y sin autenticar.
	other, _ := r.Get(ctx, old)
	assert.NotSame(t, s, other)
	assert.False(t, other.Auth.Snapshot().Authenticated())
	assert.Equal(t, 2, r.Len())
}
