// cmd/worker-manager/status.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"festival-matcher/internal/catalog"
)

type catalogStatus interface {
	Ready() bool
	Snapshot() *catalog.Snapshot
}

type brokerStatus interface {
	HealthCheck(ctx context.Context) error
}

func newStatusMux(store catalogStatus, broker brokerStatus) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Ready once a catalog snapshot is installed and the broker answers.
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !store.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "catalog not loaded",
			})
			return
		}
		if broker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := broker.HealthCheck(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"reason": err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		snap := store.Snapshot()
		if snap == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "catalog not loaded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"version":  snap.Version,
			"source":   snap.Source,
			"loadedAt": snap.LoadedAt.Format(time.RFC3339),
			"stats":    snap.Stats,
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
