// Package dashboardstats loads the admin overview figures.
package dashboardstats

import (
	"context"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/models"
)

const ActionName = "dashboard-stats"

type Handler struct {
	config  *Config
	fetcher StatsFetcher
	logger  logger.Logger
}

func NewHandler(config *Config, fetcher StatsFetcher, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		fetcher: fetcher,
		logger:  log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Execute returns live figures, or the sample figures tagged Fallback when
// the call fails and fallback is enabled. Unauthorized is never masked.
func (h *Handler) Execute(ctx context.Context, _ *Input) (*Output, error) {
	output, err := h.execute(ctx)
	metrics.RecordActionResult(ActionName, errors.CodeOf(err))
	if err == nil {
		setSourceGauge(output.Source)
	}
	return output, err
}

func (h *Handler) execute(ctx context.Context) (*Output, error) {
	if !h.config.Enabled {
		return nil, errors.NewConfigError(ActionName + " is disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	stats, err := h.fetcher.DashboardStats(ctx)
	if err == nil {
		return &Output{Stats: *stats, Source: SourceLive}, nil
	}

	if !h.config.FallbackEnabled || errors.HasCode(err, errors.ErrCodeUnauthorized) {
		h.logger.Error("dashboard stats unavailable", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}

	h.logger.Warn("dashboard stats unavailable, serving sample data", map[string]interface{}{
		"error": err,
	})
	return &Output{Stats: SampleStats(), Source: SourceFallback, Cause: err}, nil
}

func setSourceGauge(src DataSource) {
	for _, s := range []DataSource{SourceLive, SourceFallback} {
		v := 0.0
		if s == src {
			v = 1
		}
		metrics.DashboardSource.WithLabelValues(string(s)).Set(v)
	}
}

// SampleStats are the placeholder figures shown when the backend is down.
func SampleStats() models.DashboardStats {
	return models.DashboardStats{
		TotalUsers:          128,
		TotalPosts:          42,
		TotalForms:          6,
		ActiveForms:         2,
		TotalApplications:   57,
		PendingApplications: 12,
		RecentApplications: []models.ApplicationDigest{
			{ID: 3, FormTitle: "2025 하계 연구 인턴", ApplicantName: "김민지", Status: models.ApplicationStatusSubmitted},
			{ID: 2, FormTitle: "2025 하계 연구 인턴", ApplicantName: "이준호", Status: models.ApplicationStatusReviewing},
			{ID: 1, FormTitle: "대학원 진학 상담", ApplicantName: "박서연", Status: models.ApplicationStatusAccepted},
		},
	}
}
