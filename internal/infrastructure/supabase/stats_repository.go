package supabase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsSource valor de AdminStatsResponse.source con este repositorio.
const StatsSource = "rest"

// StatsRepo conteos vía PostgREST (count=exact). Se usa cuando no hay conexión directa a Postgres.
type StatsRepo struct {
	rest
	now func() time.Time
}

// NewStatsRepository construye el adaptador.
func NewStatsRepository(c *Client, tokens TokenSource) *StatsRepo {
	return &StatsRepo{rest: rest{c: c, tokens: tokens}, now: time.Now}
}

// Overview lanza los conteos en paralelo.
func (r *StatsRepo) Overview(ctx context.Context) (repository.OverviewCounts, error) {
	var out repository.OverviewCounts
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, q func() *Query) {
		g.Go(func() error {
			n, err := q().Count(gctx)
			*dst = n
			return err
		})
	}
	count(&out.TotalMembers, func() *Query { return r.from(gctx, "companies") })
	count(&out.ActiveMembers, func() *Query {
		return r.from(gctx, "memberships").Eq("status", entity.MembershipActive)
	})
	count(&out.PendingApplications, func() *Query {
		return r.from(gctx, "membership_applications").Eq("status", entity.ApplicationPending)
	})
	count(&out.UpcomingEvents, func() *Query {
		return r.from(gctx, "events").Gte("start_date", r.now().UTC().Format(time.RFC3339))
	})
	count(&out.TotalMemberships, func() *Query { return r.from(gctx, "memberships") })
	count(&out.PaidMemberships, func() *Query {
		return r.from(gctx, "memberships").Eq("payment_status", entity.PaymentStatusPaid)
	})
	if err := g.Wait(); err != nil {
		return repository.OverviewCounts{}, err
	}
	return out, nil
}

func (r *StatsRepo) LatestSnapshots(ctx context.Context, n int) ([]entity.MetricSnapshot, error) {
	return list[entity.MetricSnapshot](ctx, r.from(ctx, "metric_snapshots").
		Select("*").
		Order("snapshot_date", false).
		Limit(n))
}
