package dashboardstats

import (
	"context"

	"labportal/internal/models"
)

// DataSource tells the caller whether the figures are real.
type DataSource string

const (
	SourceLive     DataSource = "Live"
	SourceFallback DataSource = "Fallback"
)

type Input struct{}

type Output struct {
	Stats  models.DashboardStats `json:"stats"`
	Source DataSource            `json:"source"`
	// Cause is the remote failure that triggered the fallback.
	Cause error `json:"-"`
}

// StatsFetcher is the part of the API client this action needs.
type StatsFetcher interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}
