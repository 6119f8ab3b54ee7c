package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks"`
}

// ToolChecker reports whether the external media tools are available.
type ToolChecker interface {
	Check() error
}

type HealthHandler struct {
	tools     ToolChecker
	dataDir   string
	version   string
	startTime time.Time
}

func NewHealthHandler(tools ToolChecker, dataDir, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{tools: tools, dataDir: dataDir, version: version, startTime: startTime}
}

// ServeHTTP reports readiness: media tools resolvable and data directory
// writable. Degraded checks flip the overall status but still return 200 so
// dashboards can read the detail.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"media_tools": "ok",
		"storage":     "ok",
	}
	status := "ok"

	if err := h.tools.Check(); err != nil {
		checks["media_tools"] = err.Error()
		status = "degraded"
	}

	probe := filepath.Join(h.dataDir, ".healthcheck")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		checks["storage"] = err.Error()
		status = "degraded"
	} else {
		os.Remove(probe)
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
	})
}
