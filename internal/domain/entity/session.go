package entity

import "time"

// Identity usuario tal como lo devuelve el proveedor de autenticación.
type Identity struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Session prueba de autenticación emitida por el backend.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"` // unix, segundos
	User         Identity `json:"user"`
}

// Expiry instante de expiración del access token.
func (s *Session) Expiry() time.Time {
	if s == nil || s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// Expired indica si el token vence antes de now+margin.
func (s *Session) Expired(now time.Time, margin time.Duration) bool {
	exp := s.Expiry()
	return exp.IsZero() || !now.Add(margin).Before(exp)
}

// UserFromIdentity deriva la vista User. El rol sale de user_metadata, luego de
// app_metadata; sin valor reconocible queda en non-member.
func UserFromIdentity(id Identity) User {
	raw := id.UserMetadata["role"]
	if s, _ := raw.(string); s == "" {
		raw = id.AppMetadata["role"]
	}
	return User{
		ID:        id.ID,
		Email:     id.Email,
		FirstName: metaString(id.UserMetadata, "first_name"),
		LastName:  metaString(id.UserMetadata, "last_name"),
		Phone:     metaString(id.UserMetadata, "phone"),
		Role:      ParseRole(raw),
		CreatedAt: id.CreatedAt,
		UpdatedAt: id.UpdatedAt,
	}
}

func metaString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
