// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/lectern/internal/recommend"
)

// readyCheckTimeout bounds the optional readiness check.
const readyCheckTimeout = 2 * time.Second

// HealthStatus is the payload of the summary health endpoint.
type HealthStatus struct {
	Status   string          `json:"status"`
	Service  ServiceInfo     `json:"service"`
	Strategy string          `json:"strategy"`
	Stats    recommend.Stats `json:"stats"`
	Uptime   float64         `json:"uptime"`
}

// ReadyStatus is the payload of the readiness probe.
type ReadyStatus struct {
	Ready    bool              `json:"ready_to_serve"`
	Strategy string            `json:"strategy"`
	Config   *recommend.Config `json:"config"`
	Stats    recommend.Stats   `json:"stats"`
	Uptime   float64           `json:"uptime"`
	Reason   string            `json:"reason,omitempty"`
}

// Health handles GET /api/v1/health
// It reports service information and request counters without touching any
// resource backend.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, HealthStatus{
		Status:   "healthy",
		Service:  h.info,
		Strategy: h.engine.Strategy(),
		Stats:    h.engine.Stats(),
		Uptime:   time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic. Snapshots
// are loaded per request, so readiness only runs the configured check.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadyStatus{
		Ready:    true,
		Strategy: h.engine.Strategy(),
		Config:   h.engine.Config(),
		Stats:    h.engine.Stats(),
		Uptime:   time.Since(h.startTime).Seconds(),
	}

	if h.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()
		if err := h.readyCheck(ctx); err != nil {
			respondError(w, r, http.StatusServiceUnavailable, CodeNotReady, "Service is not ready",
				map[string]interface{}{"strategy": status.Strategy}, err)
			return
		}
	}

	respondJSON(w, r, http.StatusOK, status)
}
