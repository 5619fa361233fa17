package entity

import "github.com/shopspring/decimal"

// MetricSnapshot foto periódica de métricas agregadas (la genera el backend).
type MetricSnapshot struct {
	ID           string           `json:"id"`
	SnapshotDate Date             `json:"snapshot_date"`
	TotalMembers *int             `json:"total_members"`
	TotalRevenue *decimal.Decimal `json:"total_revenue"`
}
