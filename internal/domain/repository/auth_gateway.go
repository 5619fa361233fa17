package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// Eventos de cambio de sesión.
const (
	AuthInitialSession = "INITIAL_SESSION"
	AuthSignedIn       = "SIGNED_IN"
	AuthSignedOut      = "SIGNED_OUT"
	AuthTokenRefreshed = "TOKEN_REFRESHED"
	AuthUserUpdated    = "USER_UPDATED"
)

// AuthListener recibe cada cambio de sesión. session es nil tras SIGNED_OUT.
type AuthListener func(event string, session *entity.Session)

// SignUpData datos de registro que se guardan como metadatos del usuario.
type SignUpData struct {
	Profile entity.UserProfile
	Role    entity.Role
}

// AuthGateway sesión de autenticación con estado contra el proveedor de identidad.
type AuthGateway interface {
	// GetSession devuelve la sesión actual (restaurada o vigente) o nil.
	GetSession(ctx context.Context) (*entity.Session, error)
	// OnAuthStateChange registra un listener; la función devuelta lo da de baja.
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error)
	// SignUp registra al usuario. Nunca adopta una sesión.
	SignUp(ctx context.Context, email, password string, data SignUpData) (*entity.Identity, error)
	SignOut(ctx context.Context) error
	ResetPasswordForEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) (*entity.Identity, error)
	// AccessToken devuelve el token vigente o "" sin sesión.
	AccessToken(ctx context.Context) string
	Close()
}
