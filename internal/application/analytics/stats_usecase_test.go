package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/application/analytics"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

type fakeStats struct {
	counts repository.OverviewCounts
	snaps  []entity.MetricSnapshot
	err    error
	calls  int
}

func (f *fakeStats) Overview(context.Context) (repository.OverviewCounts, error) {
	f.calls++
	return f.counts, f.err
}

func (f *fakeStats) LatestSnapshots(_ context.Context, n int) ([]entity.MetricSnapshot, error) {
	if len(f.snaps) > n {
		return f.snaps[:n], nil
	}
	return f.snaps, nil
}

func snapshot(members int, revenue string) entity.MetricSnapshot {
	s := entity.MetricSnapshot{TotalMembers: &members}
	if revenue != "" {
		r := decimal.RequireFromString(revenue)
		s.TotalRevenue = &r
	}
	return s
}

func TestRevenueGrowth(t *testing.T) {
	cur, prev := snapshot(0, "1500"), snapshot(0, "1000")
	noRevenue := snapshot(0, "")
	zero := snapshot(0, "0")

	assert.Equal(t, "50", analytics.RevenueGrowth(&cur, &prev).String())
	assert.Equal(t, "-100", analytics.RevenueGrowth(&noRevenue, &prev).String(), "sin ingresos actuales cuenta como 0")
	assert.True(t, analytics.RevenueGrowth(&cur, &zero).IsZero())
	assert.True(t, analytics.RevenueGrowth(&cur, nil).IsZero())
}

func TestMemberGrowth(t *testing.T) {
	prev := snapshot(40, "")
	assert.Equal(t, "25", analytics.MemberGrowth(50, &prev).String())
	third := snapshot(3, "")
	assert.Equal(t, "33.3", analytics.MemberGrowth(4, &third).String())
	assert.True(t, analytics.MemberGrowth(10, nil).IsZero())
}

func TestCollectionRate(t *testing.T) {
	assert.Equal(t, "75", analytics.CollectionRate(3, 4).String())
	assert.True(t, analytics.CollectionRate(0, 0).IsZero())
}

func TestStatsUseCase_OverviewCombinaConteosYFotos(t *testing.T) {
	repo := &fakeStats{
		counts: repository.OverviewCounts{
			TotalMembers: 12, ActiveMembers: 8, PendingApplications: 2, UpcomingEvents: 3,
			TotalMemberships: 10, PaidMemberships: 7,
		},
		snaps: []entity.MetricSnapshot{snapshot(12, "2200"), snapshot(10, "2000")},
	}
	uc := analytics.NewStatsUseCase(repo, query.New(), "rest")

	r := uc.Overview(context.Background())
	require.Equal(t, query.Loaded, r.Status)

	got := r.Data
	assert.Equal(t, 12, got.TotalMembers)
	assert.Equal(t, 8, got.ActiveMembers)
	assert.Equal(t, "20", got.MemberGrowth.String())
	assert.Equal(t, "10", got.RevenueGrowth.String())
	assert.Equal(t, "70", got.CollectionRate.String())
	assert.Equal(t, "rest", got.Source)

	uc.Overview(context.Background())
	assert.Equal(t, 1, repo.calls, "el resumen se cachea")
}

func TestStatsUseCase_ErrorDelRepositorio(t *testing.T) {
	repo := &fakeStats{err: errors.New("permission denied for table companies")}
	uc := analytics.NewStatsUseCase(repo, nil, "postgres")

	r := uc.Overview(context.Background())

	assert.Equal(t, query.Failed, r.Status)
	assert.EqualError(t, r.Err, "permission denied for table companies")
}

// blockingSnapshots falla en los conteos y deja las fotos esperando a que se cancele su contexto.
type blockingSnapshots struct {
	cancelled chan struct{}
}

func (b *blockingSnapshots) Overview(context.Context) (repository.OverviewCounts, error) {
	return repository.OverviewCounts{}, domain.ErrForbidden
}

func (b *blockingSnapshots) LatestSnapshots(ctx context.Context, _ int) ([]entity.MetricSnapshot, error) {
	<-ctx.Done()
	close(b.cancelled)
	return nil, ctx.Err()
}

func TestStatsUseCase_UnFalloCancelaLaOtraConsulta(t *testing.T) {
	repo := &blockingSnapshots{cancelled: make(chan struct{})}
	uc := analytics.NewStatsUseCase(repo, nil, "rest")

	r := uc.Overview(context.Background())

	assert.Equal(t, query.Failed, r.Status)
	assert.ErrorIs(t, r.Err, domain.ErrForbidden)
	select {
	case <-repo.cancelled:
	case <-time.After(time.Second):
		t.Fatal("la consulta de fotos no se canceló")
	}
}
