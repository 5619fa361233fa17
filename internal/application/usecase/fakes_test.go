package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var (
	today   = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	member  = &entity.User{ID: "11111111-1111-1111-1111-111111111111", Email: "ama@example.com", Role: entity.RoleMember}
	adminU  = &entity.User{ID: "22222222-2222-2222-2222-222222222222", Email: "root@example.com", Role: entity.RoleAdmin}
	anyUUID = "33333333-3333-3333-3333-333333333333"
)

func newDeps(u *entity.User) (usecase.Deps, *notify.Flash) {
	flash := notify.NewFlash(notify.DefaultFlashCapacity)
	return usecase.Deps{
		Cache:       query.New(),
		Notifier:    flash,
		CurrentUser: func() *entity.User { return u },
		Now:         func() time.Time { return today },
	}, flash
}

type companyRepo struct {
	mu        sync.Mutex
	items     map[string]entity.Company
	created   []entity.CompanyFields
	listCalls int
	getCalls  int
	err       error
}

func newCompanyRepo(cs ...entity.Company) *companyRepo {
	r := &companyRepo{items: map[string]entity.Company{}}
	for _, c := range cs {
		r.items[c.ID] = c
	}
	return r
}

func (r *companyRepo) List(context.Context) ([]entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	out := []entity.Company{}
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *companyRepo) ListByOwner(_ context.Context, userID string) ([]entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Company{}
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *companyRepo) Create(_ context.Context, in entity.CompanyFields) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.created = append(r.created, in)
	c := entity.Company{ID: uuid.NewString(), Name: in.Name, Website: in.Website, UserID: in.UserID, IndustrySector: in.IndustrySector}
	r.items[c.ID] = c
	return &c, nil
}

func (r *companyRepo) Update(_ context.Context, id string, p entity.CompanyPatch) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.items[id]
	if p.Name != nil {
		c.Name = *p.Name
	}
	r.items[id] = c
	return &c, nil
}

func (r *companyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type membershipRepo struct {
	items map[string]entity.Membership
	calls int
}

func (r *membershipRepo) GetByID(_ context.Context, id string) (*entity.Membership, error) {
	r.calls++
	m, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *membershipRepo) CurrentForCompany(_ context.Context, companyID string) (*entity.Membership, error) {
	for _, m := range r.items {
		if m.CompanyID == companyID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *membershipRepo) Update(_ context.Context, id string, p entity.MembershipPatch) (*entity.Membership, error) {
	m := r.items[id]
	if p.Status != nil {
		m.Status = *p.Status
	}
	r.items[id] = m
	return &m, nil
}

type paymentRepo struct {
	items     []entity.PaymentRecord
	created   []entity.PaymentFields
	listCalls int
}

func (r *paymentRepo) ListByMembership(_ context.Context, membershipID string) ([]entity.PaymentRecord, error) {
	r.listCalls++
	out := []entity.PaymentRecord{}
	for _, p := range r.items {
		if p.MembershipID == membershipID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.PaymentRecord, error) {
	for _, p := range r.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *paymentRepo) Create(_ context.Context, in entity.PaymentFields) (*entity.PaymentRecord, error) {
	r.created = append(r.created, in)
	p := entity.PaymentRecord{
		ID: uuid.NewString(), MembershipID: in.MembershipID, Amount: in.Amount,
		PaymentDate: in.PaymentDate, PaymentMethod: in.PaymentMethod, Reference: in.Reference, Status: in.Status,
	}
	r.items = append(r.items, p)
	return &p, nil
}

type applicationRepo struct {
	items   map[string]entity.MembershipApplication
	created []entity.ApplicationFields
}

func (r *applicationRepo) List(context.Context) ([]entity.MembershipApplication, error) {
	out := []entity.MembershipApplication{}
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}

func (r *applicationRepo) ListByCompany(_ context.Context, companyID string) ([]entity.MembershipApplication, error) {
	out := []entity.MembershipApplication{}
	for _, a := range r.items {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *applicationRepo) Create(_ context.Context, in entity.ApplicationFields) (*entity.MembershipApplication, error) {
	r.created = append(r.created, in)
	a := entity.MembershipApplication{ID: uuid.NewString(), CompanyID: in.CompanyID, MembershipType: in.MembershipType,
		AnnualFee: in.AnnualFee, Status: entity.ApplicationPending}
	r.items[a.ID] = a
	return &a, nil
}

func (r *applicationRepo) Review(_ context.Context, id string, rv entity.ApplicationReview) (*entity.MembershipApplication, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if a.Terminal() {
		return nil, domain.ErrConflict
	}
	a.Status = rv.Status
	a.ReviewedBy = &rv.ReviewedBy
	a.ReviewedAt = &rv.ReviewedAt
	r.items[id] = a
	return &a, nil
}

type packageRepo struct {
	items   map[string]entity.MembershipPackage
	updates int
	err     error
}

func (r *packageRepo) List(context.Context) ([]entity.MembershipPackage, error) {
	out := []entity.MembershipPackage{}
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

func (r *packageRepo) ActiveByType(_ context.Context, t entity.MembershipType) (*entity.MembershipPackage, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.items {
		if p.Type == t && p.IsActive {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *packageRepo) GetByName(_ context.Context, name string) (*entity.MembershipPackage, error) {
	for _, p := range r.items {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *packageRepo) Create(_ context.Context, in entity.PackageFields) (*entity.MembershipPackage, error) {
	p := entity.MembershipPackage{ID: uuid.NewString(), Name: in.Name, Type: in.Type, AnnualFee: in.AnnualFee,
		Description: in.Description, Features: in.Features, IsActive: in.IsActive}
	r.items[p.ID] = p
	return &p, nil
}

func (r *packageRepo) Update(_ context.Context, id string, patch entity.PackagePatch) (*entity.MembershipPackage, error) {
	r.updates++
	p := r.items[id]
	if patch.AnnualFee != nil {
		p.AnnualFee = *patch.AnnualFee
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	r.items[id] = p
	return &p, nil
}

type eventRepo struct {
	items map[string]entity.Event
}

func (r *eventRepo) List(context.Context) ([]entity.Event, error) {
	out := []entity.Event{}
	for _, e := range r.items {
		out = append(out, e)
	}
	return out, nil
}

func (r *eventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *eventRepo) Create(_ context.Context, in entity.EventFields) (*entity.Event, error) {
	e := entity.Event{ID: uuid.NewString(), Title: in.Title, StartDate: in.StartDate, EndDate: in.EndDate, Capacity: in.Capacity}
	r.items[e.ID] = e
	return &e, nil
}

func (r *eventRepo) Update(_ context.Context, id string, _ entity.EventPatch) (*entity.Event, error) {
	e := r.items[id]
	return &e, nil
}

func (r *eventRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type opportunityRepo struct {
	items   map[string]entity.BusinessOpportunity
	created []entity.OpportunityFields
	calls   int
}

func (r *opportunityRepo) List(context.Context) ([]entity.BusinessOpportunity, error) {
	r.calls++
	out := []entity.BusinessOpportunity{}
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, nil
}

func (r *opportunityRepo) GetByID(_ context.Context, id string) (*entity.BusinessOpportunity, error) {
	r.calls++
	o, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *opportunityRepo) Create(_ context.Context, in entity.OpportunityFields) (*entity.BusinessOpportunity, error) {
	r.created = append(r.created, in)
	o := entity.BusinessOpportunity{ID: uuid.NewString(), Title: in.Title, Deadline: in.Deadline}
	r.items[o.ID] = o
	return &o, nil
}

func (r *opportunityRepo) Update(_ context.Context, id string, p entity.OpportunityPatch) (*entity.BusinessOpportunity, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Title != nil {
		o.Title = *p.Title
	}
	r.items[id] = o
	return &o, nil
}

func (r *opportunityRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type registrationRepo struct {
	items []entity.EventRegistration
}

func (r *registrationRepo) Create(_ context.Context, eventID, userID string) (*entity.EventRegistration, error) {
	reg := entity.EventRegistration{ID: uuid.NewString(), EventID: eventID, UserID: userID, Status: entity.RegistrationRegistered}
	r.items = append(r.items, reg)
	return &reg, nil
}

func (r *registrationRepo) ListByUser(_ context.Context, userID string) ([]entity.EventRegistration, error) {
	out := []entity.EventRegistration{}
	for _, reg := range r.items {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *registrationRepo) CountActive(_ context.Context, eventID string) (int, error) {
	n := 0
	for _, reg := range r.items {
		if reg.EventID == eventID && reg.Status != entity.RegistrationCancelled {
			n++
		}
	}
	return n, nil
}

func (r *registrationRepo) Cancel(_ context.Context, id, userID string) (*entity.EventRegistration, error) {
	for i, reg := range r.items {
		if reg.ID == id && reg.UserID == userID {
			r.items[i].Status = entity.RegistrationCancelled
			return &r.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type settingsRepo struct {
	current *entity.PaymentGatewaySettings
}

func (r *settingsRepo) Get(context.Context) (*entity.PaymentGatewaySettings, error) {
	if r.current == nil {
		return nil, nil
	}
	s := *r.current
	return &s, nil
}

func (r *settingsRepo) Save(_ context.Context, s entity.PaymentGatewaySettings) (*entity.PaymentGatewaySettings, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.current = &s
	out := s
	return &out, nil
}

type userRepo struct {
	items []entity.UserRecord
}

func (r *userRepo) List(context.Context) ([]entity.UserRecord, error) { return r.items, nil }

func (r *userRepo) EmailsByID(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, u := range r.items {
		for _, id := range ids {
			if u.ID == id {
				out[id] = u.Email
			}
		}
	}
	return out, nil
}

type userAdmin struct {
	roles   map[string]entity.Role
	deleted []string
}

func (a *userAdmin) CreateUser(_ context.Context, in repository.NewUser) (*entity.Identity, error) {
	return &entity.Identity{ID: uuid.NewString(), Email: in.Email, UserMetadata: map[string]any{"role": string(in.Role)}}, nil
}

func (a *userAdmin) UpdateRole(_ context.Context, userID string, role entity.Role) (*entity.Identity, error) {
	a.roles[userID] = role
	return &entity.Identity{ID: userID, UserMetadata: map[string]any{"role": string(role)}}, nil
}

func (a *userAdmin) DeleteUser(_ context.Context, userID string) error {
	a.deleted = append(a.deleted, userID)
	return nil
}

func ptr[T any](v T) *T { return &v }
