package supabase

import (
	"context"
	"errors"

	"github.com/jhoicas/gncci-portal/internal/domain"
)

// TokenSource entrega el access token con el que se ejecutan las consultas (RLS).
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// TokenFunc adapta una función a TokenSource.
type TokenFunc func(ctx context.Context) string

func (f TokenFunc) AccessToken(ctx context.Context) string { return f(ctx) }

// Anonymous consultas con la clave pública.
var Anonymous TokenSource = TokenFunc(func(context.Context) string { return "" })

// ServiceRole consultas con la clave de servicio (CLI de operación). Ignora RLS.
func ServiceRole(c *Client) TokenSource {
	return TokenFunc(func(context.Context) string { return c.serviceKey })
}

// rest base común de los repositorios PostgREST.
type rest struct {
	c      *Client
	tokens TokenSource
}

func (r rest) from(ctx context.Context, table string) *Query {
	q := r.c.From(table)
	if r.tokens != nil {
		q.WithToken(r.tokens.AccessToken(ctx))
	}
	return q
}

// one ejecuta q como fila única; sin filas devuelve nil, nil.
func one[T any](ctx context.Context, q *Query) (*T, error) {
	var out T
	if err := q.Single().Execute(ctx, &out); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// first ejecuta q limitada a una fila; sin filas devuelve nil, nil.
func first[T any](ctx context.Context, q *Query) (*T, error) {
	var out T
	found, err := q.First(ctx, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// single ejecuta q exigiendo una fila (inserciones y actualizaciones).
func single[T any](ctx context.Context, q *Query) (*T, error) {
	var out T
	if err := q.Single().Execute(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// list ejecuta q y devuelve un slice no nil.
func list[T any](ctx context.Context, q *Query) ([]T, error) {
	out := []T{}
	if err := q.Execute(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Repositories agrupa los adaptadores de datos ligados a una misma fuente de token.
type Repositories struct {
	Companies       *CompanyRepo
	Memberships     *MembershipRepo
	Payments        *PaymentRepo
	Applications    *ApplicationRepo
	Events          *EventRepo
	Registrations   *RegistrationRepo
	Opportunities   *OpportunityRepo
	Packages        *PackageRepo
	PaymentSettings *PaymentSettingsRepo
	Users           *UserRepo
	Stats           *StatsRepo
}

// NewRepositories construye todos los repositorios sobre c con los tokens de tokens.
func NewRepositories(c *Client, tokens TokenSource) *Repositories {
	return &Repositories{
		Companies:       NewCompanyRepository(c, tokens),
		Memberships:     NewMembershipRepository(c, tokens),
		Payments:        NewPaymentRepository(c, tokens),
		Applications:    NewApplicationRepository(c, tokens),
		Events:          NewEventRepository(c, tokens),
		Registrations:   NewRegistrationRepository(c, tokens),
		Opportunities:   NewOpportunityRepository(c, tokens),
		Packages:        NewPackageRepository(c, tokens),
		PaymentSettings: NewPaymentSettingsRepository(c, tokens),
		Users:           NewUserRepository(c, tokens),
		Stats:           NewStatsRepository(c, tokens),
	}
}
