package main

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/session"
	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/postgres"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/supabase"
)

// portalBackend crea los adaptadores de Supabase de cada sesión del navegador.
type portalBackend struct {
	client     *supabase.Client
	store      repository.SessionStore
	storageKey string
	redirectTo string
	persistTTL time.Duration
	log        zerolog.Logger

	// stats directo por Postgres; nil = conteos vía PostgREST con el token de la sesión.
	stats repository.StatsRepository
}

var (
	_ session.Backend = (*portalBackend)(nil)
	_ session.Rekeyer = (*supabase.AuthSession)(nil)
)

func (b *portalBackend) NewGateway(id string) repository.AuthGateway {
	return supabase.NewAuthSession(b.client, b.store, supabase.AuthSessionOptions{
		StorageKey: b.storageKey,
		ID:         id,
		RedirectTo: b.redirectTo,
		PersistTTL: b.persistTTL,
		Logger:     b.log,
	})
}

func (b *portalBackend) Repositories(tokens session.TokenSource) usecase.Repositories {
	r := supabase.NewRepositories(b.client, tokens)
	out := usecase.Repositories{
		Companies:       r.Companies,
		Memberships:     r.Memberships,
		Payments:        r.Payments,
		Applications:    r.Applications,
		Events:          r.Events,
		Registrations:   r.Registrations,
		Opportunities:   r.Opportunities,
		Packages:        r.Packages,
		PaymentSettings: r.PaymentSettings,
		Users:           r.Users,
		Stats:           r.Stats,
		StatsSource:     supabase.StatsSource,
	}
	if b.stats != nil {
		out.Stats = b.stats
		out.StatsSource = postgres.Source
	}
	return out
}
