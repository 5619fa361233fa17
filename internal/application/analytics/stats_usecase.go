// Package analytics contiene las estadísticas del panel de administración.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

// CacheKey entidad de caché de las estadísticas.
const CacheKey = "admin-stats"

var (
	hundred   = decimal.NewFromInt(100)
	statsRead = query.Options{StaleTime: time.Minute, Retries: 2, RetryDelay: 250 * time.Millisecond}
)

// StatsUseCase resumen del panel de administración.
//
// Los conteos vienen de StatsRepository (Postgres directo o PostgREST, según la configuración);
// los crecimientos, de las dos fotos más recientes de metric_snapshots.
type StatsUseCase struct {
	repo   repository.StatsRepository
	cache  *query.Cache
	source string
}

// NewStatsUseCase construye el caso de uso. source identifica el origen de los conteos (postgres | rest).
func NewStatsUseCase(repo repository.StatsRepository, cache *query.Cache, source string) *StatsUseCase {
	if cache == nil {
		cache = query.New()
	}
	return &StatsUseCase{repo: repo, cache: cache, source: source}
}

// Overview resumen cacheado un minuto.
func (uc *StatsUseCase) Overview(ctx context.Context) query.Result[dto.AdminStatsResponse] {
	return query.Fetch(ctx, uc.cache, query.EntityKey(CacheKey), statsRead, true, uc.compute)
}

func (uc *StatsUseCase) compute(ctx context.Context) (dto.AdminStatsResponse, error) {
	var (
		c     repository.OverviewCounts
		snaps []entity.MetricSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = uc.repo.Overview(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snaps, err = uc.repo.LatestSnapshots(gctx, 2)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.AdminStatsResponse{}, err
	}

	var current, previous *entity.MetricSnapshot
	if len(snaps) > 0 {
		current = &snaps[0]
	}
	if len(snaps) > 1 {
		previous = &snaps[1]
	}

	return dto.AdminStatsResponse{
		TotalMembers:        c.TotalMembers,
		ActiveMembers:       c.ActiveMembers,
		PendingApplications: c.PendingApplications,
		UpcomingEvents:      c.UpcomingEvents,
		MemberGrowth:        MemberGrowth(c.TotalMembers, previous),
		RevenueGrowth:       RevenueGrowth(current, previous),
		CollectionRate:      CollectionRate(c.PaidMemberships, c.TotalMemberships),
		Source:              uc.source,
	}, nil
}

// MemberGrowth variación % del total de empresas frente a la foto anterior. 0 sin foto previa.
func MemberGrowth(total int, previous *entity.MetricSnapshot) decimal.Decimal {
	if previous == nil || previous.TotalMembers == nil || *previous.TotalMembers == 0 {
		return decimal.Zero
	}
	prev := decimal.NewFromInt(int64(*previous.TotalMembers))
	return decimal.NewFromInt(int64(total)).Sub(prev).Div(prev).Mul(hundred).Round(1)
}

// RevenueGrowth ((actual o 0) - anterior) / anterior * 100, un decimal. 0 sin ingresos previos.
func RevenueGrowth(current, previous *entity.MetricSnapshot) decimal.Decimal {
	if previous == nil || previous.TotalRevenue == nil || previous.TotalRevenue.IsZero() {
		return decimal.Zero
	}
	cur := decimal.Zero
	if current != nil && current.TotalRevenue != nil {
		cur = *current.TotalRevenue
	}
	prev := *previous.TotalRevenue
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1)
}

// CollectionRate % de membresías pagadas sobre el total, un decimal.
func CollectionRate(paid, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(paid)).Div(decimal.NewFromInt(int64(total))).Mul(hundred).Round(1)
}
