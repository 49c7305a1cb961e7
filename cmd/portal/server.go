package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"labportal/internal/common/database"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler reports the reachability of the configured stores.
func (a *app) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks, healthy := database.Probe(ctx, a.stores()...)

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"version": a.cfg.App.Version,
		"checks":  checks,
	})
}

// stores lists the connected stores; nil ones were never configured.
func (a *app) stores() []database.Pinger {
	var out []database.Pinger
	if a.redis != nil {
		out = append(out, a.redis)
	}
	if a.pg != nil {
		out = append(out, a.pg)
	}
	return out
}

func (a *app) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// startMetricsServer serves /health and /metrics until the returned stop func is called.
func (a *app) startMetricsServer(addr string) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.log.Info("health/metrics server listening", map[string]interface{}{"address": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Warn("health/metrics server shutdown failed", map[string]interface{}{"error": err})
		}
	}
}
