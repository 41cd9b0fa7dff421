package rest

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/laala-app/creator-dashboard/internal"
)

// HealthHandler answers liveness and readiness probes. Readiness requires
// the account store to respond: the guard cannot make decisions without it.
type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type probeResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	CheckedAt time.Time              `json:"checked_at"`
	Checks    map[string]probeResult `json:"checks"`
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	store := probeResult{Status: "healthy"}
	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		store.Status = "unhealthy"
		store.Error = err.Error()
	}
	store.LatencyMs = time.Since(start).Milliseconds()

	resp := healthResponse{
		Status:    store.Status,
		CheckedAt: time.Now(),
		Checks:    map[string]probeResult{"postgres": store},
	}

	status := http.StatusOK
	if store.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
