// Package healthz implements the liveness/readiness endpoints served
// on the debug listener.
package healthz

import (
	"fmt"
	"net/http"
)

// A Check reports an error when the component it probes is unhealthy.
type Check func() error

type Handler struct {
	checks []Check
}

func New(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	for _, check := range h.checks {
		if err := check(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "503 Service Unavailable: %v", err)
			return
		}
	}

	w.Write([]byte("200 OK"))
}
