package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// OverviewCounts conteos crudos para el panel de administración.
type OverviewCounts struct {
	TotalMembers        int // empresas registradas
	ActiveMembers       int // membresías activas
	PendingApplications int
	UpcomingEvents      int // start_date >= ahora
	TotalMemberships    int
	PaidMemberships     int // payment_status = paid
}

// StatsRepository consultas de solo lectura para estadísticas.
type StatsRepository interface {
	Overview(ctx context.Context) (OverviewCounts, error)
	// LatestSnapshots devuelve hasta n fotos, la más reciente primero.
	LatestSnapshots(ctx context.Context, n int) ([]entity.MetricSnapshot, error)
}
