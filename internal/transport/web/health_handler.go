package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// HealthResponse represents the response structure for health check endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`           // "ok" or "error"
	Timestamp time.Time         `json:"timestamp"`        // Current server time
	Checks    map[string]string `json:"checks,omitempty"` // Individual component health
	Uptime    string            `json:"uptime,omitempty"` // Server uptime
}

var startTime = time.Now()

// HealthCheck handles the /health endpoint.
// This is a lightweight endpoint that always returns 200 OK if the service is running.
// It does NOT check dependencies; use /readiness for that.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    formatUptime(time.Since(startTime)),
	})
}

// ReadinessCheck handles the /readiness endpoint.
// It returns 200 OK when the database answers and 503 Service Unavailable otherwise.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": h.checkDatabase(r.Context()),
	}

	status, httpStatus := "ok", http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status, httpStatus = "error", http.StatusServiceUnavailable
			break
		}
	}

	jsonResponse(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

// checkDatabase pings the pool, then runs a trivial query through the persistence context.
func (h *Handler) checkDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.container.Ping(ctx); err != nil {
		LoggerFrom(ctx).Warn("readiness: database ping failed", "err", err)
		return "error"
	}

	scanOne := func(row store.Scanner) (int, error) {
		var n int
		err := row.Scan(&n)
		return n, err
	}
	one, found, err := store.QueryFirstOrDefault(ctx, h.scope().Store, scanOne, "SELECT 1", store.QueryOptions{Timeout: time.Second})
	if err != nil || !found || one != 1 {
		LoggerFrom(ctx).Warn("readiness: database query failed", "err", err)
		return "error"
	}
	return "ok"
}

// formatUptime converts a duration into a human-readable uptime string.
// Examples: "1d 5h 23m", "2h 15m 30s", "45s".
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
