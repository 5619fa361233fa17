package supabase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/sessionstore"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/supabase"
	pkgjwt "github.com/jhoicas/gncci-portal/pkg/jwt"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func accessToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "u1"},
		Email:            "ama@example.com",
	}, ttl)
	require.NoError(t, err)
	return tok
}

func sessionJSON(token, refresh string) string {
	return fmt.Sprintf(`{"access_token":%q,"refresh_token":%q,"token_type":"bearer","expires_in":3600,`+
		`"user":{"id":"u1","email":"ama@example.com","user_metadata":{"role":"member"}}}`, token, refresh)
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) listener(event string, _ *entity.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func newAuthSession(t *testing.T, fb *fakeBackend, store repository.SessionStore) *supabase.AuthSession {
	t.Helper()
	s := supabase.NewAuthSession(fb.client(t), store, supabase.AuthSessionOptions{StorageKey: "gncci_auth", ID: "b1"})
	t.Cleanup(s.Close)
	return s
}

func TestAuthSession_SignInPersisteYNotifica(t *testing.T) {
	fb := newFakeBackend(t)
	tok := accessToken(t, time.Hour)
	var grant string
	reply := jsonReply(200, sessionJSON(tok, "r1"))
	fb.on("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		grant = r.URL.Query().Get("grant_type")
		reply(w, r)
	})
	store := sessionstore.NewMemory()
	s := newAuthSession(t, fb, store)
	var log eventLog
	unsubscribe := s.OnAuthStateChange(log.listener)
	defer unsubscribe()

	sess, err := s.SignInWithPassword(context.Background(), "ama@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "password", grant)
	assert.Equal(t, tok, sess.AccessToken)
	assert.Equal(t, tok, s.AccessToken(context.Background()))
	assert.Equal(t, []string{repository.AuthSignedIn}, log.all())

	data, err := store.Load(context.Background(), "gncci_auth:b1")
	require.NoError(t, err)
	require.NotNil(t, data, "la sesión debe persistirse bajo la clave de almacenamiento")
	var persisted entity.Session
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, "r1", persisted.RefreshToken)
}

func TestAuthSession_RekeyMueveLaSesionPersistida(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("POST /auth/v1/token", jsonReply(200, sessionJSON(accessToken(t, time.Hour), "r1")))
	store := sessionstore.NewMemory()
	s := newAuthSession(t, fb, store)
	ctx := context.Background()

	_, err := s.SignInWithPassword(ctx, "ama@example.com", "secret")
	require.NoError(t, err)

	s.Rekey(ctx, "b2")

	assert.Equal(t, "gncci_auth:b2", s.StorageKey())
	old, err := store.Load(ctx, "gncci_auth:b1")
	require.NoError(t, err)
	assert.Nil(t, old, "la clave anterior ya no restaura la sesión")
	moved, err := store.Load(ctx, "gncci_auth:b2")
	require.NoError(t, err)
	assert.NotNil(t, moved)
}

func TestAuthSession_SignUpNoAdoptaSesion(t *testing.T) {
	fb := newFakeBackend(t)
	var body map[string]any
	reply := jsonReply(200, sessionJSON(accessToken(t, time.Hour), "r1"))
	fb.on("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		reply(w, r)
	})
	store := sessionstore.NewMemory()
	s := newAuthSession(t, fb, store)

	u, err := s.SignUp(context.Background(), "ama@example.com", "secret", repository.SignUpData{
		Profile: entity.UserProfile{FirstName: "Ama"},
		Role:    entity.RoleNonMember,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	sess, err := s.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess, "el registro nunca deja una sesión activa")
	assert.Equal(t, 0, store.Len())

	data := body["data"].(map[string]any)
	assert.Equal(t, "non-member", data["role"])
	assert.Equal(t, "Ama", data["first_name"])
}

func TestAuthSession_SignOutLimpiaAunqueFalleElBackend(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("POST /auth/v1/token", jsonReply(200, sessionJSON(accessToken(t, time.Hour), "r1")))
	fb.on("POST /auth/v1/logout", jsonReply(500, `{"message":"boom"}`))
	store := sessionstore.NewMemory()
	s := newAuthSession(t, fb, store)
	var log eventLog
	s.OnAuthStateChange(log.listener)

	_, err := s.SignInWithPassword(context.Background(), "ama@example.com", "secret")
	require.NoError(t, err)

	err = s.SignOut(context.Background())
	assert.EqualError(t, err, "boom")

	sess, err := s.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, []string{repository.AuthSignedIn, repository.AuthSignedOut}, log.all())
}

func TestAuthSession_RestauraYRenuevaSesionExpirada(t *testing.T) {
	fb := newFakeBackend(t)
	fresh := accessToken(t, time.Hour)
	var refreshToken string
	fb.on("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var b map[string]string
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &b)
		refreshToken = b["refresh_token"]
		jsonReply(200, sessionJSON(fresh, "r2"))(w, r)
	})
	store := sessionstore.NewMemory()
	expired := entity.Session{AccessToken: accessToken(t, -time.Minute), RefreshToken: "r1"}
	data, _ := json.Marshal(expired)
	require.NoError(t, store.Save(context.Background(), "gncci_auth:b1", data, time.Hour))

	s := newAuthSession(t, fb, store)
	var log eventLog
	s.OnAuthStateChange(log.listener)

	sess, err := s.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "r1", refreshToken)
	assert.Equal(t, fresh, sess.AccessToken)
	assert.Equal(t, []string{repository.AuthInitialSession}, log.all())
}

func TestAuthSession_SinSesionPersistida(t *testing.T) {
	fb := newFakeBackend(t)
	s := newAuthSession(t, fb, sessionstore.NewMemory())
	var log eventLog
	s.OnAuthStateChange(log.listener)

	sess, err := s.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, "", s.AccessToken(context.Background()))
	assert.Equal(t, []string{repository.AuthInitialSession}, log.all(), "INITIAL_SESSION se emite una sola vez")
}

func TestAuthSession_UnsubscribeDejaDeNotificar(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("POST /auth/v1/token", jsonReply(200, sessionJSON(accessToken(t, time.Hour), "r1")))
	s := newAuthSession(t, fb, sessionstore.NewMemory())
	var log eventLog
	unsubscribe := s.OnAuthStateChange(log.listener)
	unsubscribe()

	_, err := s.SignInWithPassword(context.Background(), "ama@example.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, log.all())
}
