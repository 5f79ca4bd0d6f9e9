package http

import (
	"net/http"
	"time"

	"docsum/internal/handler/http/respond"
	"docsum/internal/registry"
)

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports the health of the service's two startup-time
// dependencies: the model registry and the inference gateway configuration.
// The gateway itself is not probed per request; its circuit breakers report
// live state through metrics instead.
type HealthHandler struct {
	Registry          *registry.Registry
	GatewayConfigured bool
	Version           string
}

// ServeHTTP returns 200 when every check passes, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	checks["model_registry"] = h.checkRegistry()

	if h.GatewayConfigured {
		checks["inference_gateway"] = CheckStatus{Status: "healthy", Message: "configured"}
	} else {
		checks["inference_gateway"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
	}

	// Degraded checks describe reduced capability, not an outage; only an
	// unhealthy check takes the service out of rotation.
	status := "healthy"
	statusCode := http.StatusOK
	for _, check := range checks {
		if check.Status == "degraded" && status == "healthy" {
			status = "degraded"
		}
		if check.Status == "unhealthy" {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkRegistry() CheckStatus {
	if h.Registry == nil {
		return CheckStatus{Status: "unhealthy", Message: "not loaded"}
	}

	specs := h.Registry.All()
	details := map[string]any{
		"models":        len(specs),
		"default_model": h.Registry.Default().ID,
	}
	if _, ok := h.Registry.LongContext(); !ok {
		return CheckStatus{
			Status:  "degraded",
			Message: "no long-context model registered",
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler answers readiness probes. The service is ready once the
// registry is loaded; there is no database or queue to wait for.
type ReadyHandler struct {
	Registry *registry.Registry
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil || len(h.Registry.All()) == 0 {
		http.Error(w, "model registry not loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes with a plain 200.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
