// Package usecase contiene las operaciones del portal por entidad. Cada lectura pasa por la
// caché de la sesión; cada mutación avisa al usuario e invalida las claves afectadas.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/analytics"
	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// Claves de la caché.
const (
	KeyCompanies         = "companies"
	KeyCompany           = "company"
	KeyCompanyMembership = "company-membership"
	KeyMyCompanies       = "my-companies"
	KeyMembership        = "membership"
	KeyPayments          = "payments"
	KeyApplications      = "membership-applications"
	KeyEvents            = "events"
	KeyEvent             = "event"
	KeyRegistrations     = "event-registrations"
	KeyOpportunities     = "business-opportunities"
	KeyOpportunity       = "business-opportunity"
	KeyPackages          = "membership-packages"
	KeyPaymentSettings   = "payment-settings"
	KeyUsers             = "users"
	KeyAdminStats        = analytics.CacheKey
)

// NewID valor de id que usan las pantallas de alta.
const NewID = "new"

// Opciones de lectura.
var (
	defaultRead = query.Options{Retries: 3, RetryDelay: 250 * time.Millisecond}
	detailRead  = query.Options{StaleTime: 5 * time.Minute, Retries: 2, RetryDelay: 250 * time.Millisecond}
)

// ValidID indica si id permite lanzar una lectura: no vacío, distinto de "new" y UUID bien formado.
func ValidID(id string) bool {
	if id == "" || id == NewID {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Deps dependencias comunes a todos los casos de uso de una sesión.
type Deps struct {
	Cache    *query.Cache
	Notifier notify.Notifier
	// CurrentUser devuelve el usuario autenticado o nil.
	CurrentUser func() *entity.User
	Log         zerolog.Logger
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = query.New()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop()
	}
	if d.CurrentUser == nil {
		d.CurrentUser = func() *entity.User { return nil }
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) user() (*entity.User, error) {
	u := d.CurrentUser()
	if u == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return u, nil
}

func (d Deps) admin() (*entity.User, error) {
	u, err := d.user()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// mutation describe los efectos de una escritura exitosa.
type mutation struct {
	success    string
	fallback   string // texto si el backend no da mensaje
	invalidate []query.Key
}

// mutate ejecuta fn una sola vez. Si falla avisa del error y lo devuelve; si va bien
// invalida las claves antes de avisar del éxito.
func mutate[T any](ctx context.Context, d Deps, m mutation, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		d.Notifier.Error(failText(err, m.fallback))
		d.Log.Debug().Err(err).Str("op", m.success).Msg("mutación fallida")
		return v, err
	}
	d.Cache.Invalidate(m.invalidate...)
	d.Notifier.Success(m.success)
	return v, nil
}

// failText texto del aviso de error; fallback si el backend no dio mensaje.
func failText(err error, fallback string) string {
	if msg := notify.ErrorMessage(err); msg != "" {
		return msg
	}
	return fallback
}

func entityKey(e string) query.Key     { return query.EntityKey(e) }
func scoped(e, scope string) query.Key { return query.ScopedKey(e, scope) }
