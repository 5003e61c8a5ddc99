package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler serves GET /healthz. It always reports ok while the
// process can answer requests.
func (c *Checker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, c.Liveness(r.Context()))
	})
}

// ReadinessHandler serves GET /readyz. A degraded aggregate maps to 503 so
// load balancers stop routing before the process is unable to evaluate.
func (c *Checker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := c.Readiness(r.Context())
		code := http.StatusOK
		if status.Status == "degraded" {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, status)
	})
}

func writeStatus(w http.ResponseWriter, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
