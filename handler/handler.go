// Package handler serves the poller's metrics and health endpoints
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// health is the /healthz response body
type health struct {
	Status string `json:"status"`
	Cycles int64  `json:"cycles"`
}

// New returns a mux serving /metrics from gatherer and /healthz reporting cycles()
func New(gatherer prometheus.Gatherer, cycles func() int64) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", healthHandler(cycles))
	return mux
}

func healthHandler(cycles func() int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

			return
		}

		body := health{Status: "ok"}
		if cycles != nil {
			body.Cycles = cycles()
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(body); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}
	}
}
