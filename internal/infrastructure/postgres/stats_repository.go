package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// Source valor de AdminStatsResponse.source cuando los conteos vienen de este repositorio.
const Source = "postgres"

// StatsRepo conteos del panel de administración por conexión directa.
type StatsRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewStatsRepository construye el adaptador.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool, tx: NewTxRunner(pool)}
}

var overviewCounts = []struct {
	query string
	dest  func(c *repository.OverviewCounts) *int
}{
	{`SELECT count(*) FROM companies`, func(c *repository.OverviewCounts) *int { return &c.TotalMembers }},
	{`SELECT count(*) FROM memberships WHERE status = 'active'`, func(c *repository.OverviewCounts) *int { return &c.ActiveMembers }},
	{`SELECT count(*) FROM membership_applications WHERE status = 'pending'`, func(c *repository.OverviewCounts) *int { return &c.PendingApplications }},
	{`SELECT count(*) FROM memberships`, func(c *repository.OverviewCounts) *int { return &c.TotalMemberships }},
	{`SELECT count(*) FROM memberships WHERE payment_status = 'paid'`, func(c *repository.OverviewCounts) *int { return &c.PaidMemberships }},
}

// Overview ejecuta los conteos en una misma transacción de solo lectura.
func (r *StatsRepo) Overview(ctx context.Context) (repository.OverviewCounts, error) {
	var out repository.OverviewCounts
	err := r.tx.ReadOnly(ctx, func(tx pgx.Tx) error {
		for _, c := range overviewCounts {
			if err := tx.QueryRow(ctx, c.query).Scan(c.dest(&out)); err != nil {
				return err
			}
		}
		const upcoming = `SELECT count(*) FROM events WHERE start_date >= $1`
		return tx.QueryRow(ctx, upcoming, time.Now().UTC()).Scan(&out.UpcomingEvents)
	})
	if err != nil {
		return repository.OverviewCounts{}, mapError("stats.Overview", err)
	}
	return out, nil
}

// LatestSnapshots últimas n fotos de metric_snapshots, la más reciente primero.
func (r *StatsRepo) LatestSnapshots(ctx context.Context, n int) ([]entity.MetricSnapshot, error) {
	const query = `
	SELECT id::TEXT, snapshot_date, total_members, total_revenue
	FROM metric_snapshots
	ORDER BY snapshot_date DESC
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		return nil, mapError("stats.LatestSnapshots", err)
	}
	defer rows.Close()

	out := []entity.MetricSnapshot{}
	for rows.Next() {
		var (
			s       entity.MetricSnapshot
			date    time.Time
			members *int
			revenue *decimal.Decimal
		)
		if err := rows.Scan(&s.ID, &date, &members, &revenue); err != nil {
			return nil, mapError("stats.LatestSnapshots", err)
		}
		s.SnapshotDate = entity.NewDate(date)
		s.TotalMembers = members
		s.TotalRevenue = revenue
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("stats.LatestSnapshots", err)
	}
	return out, nil
}
