package healthz

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	New().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if got, want := w.Body.String(), "200 OK"; got != want {
		t.Errorf("got body %q, want %q", got, want)
	}
}

func TestFailingCheck(t *testing.T) {
	w := httptest.NewRecorder()
	h := New(
		func() error { return nil },
		func() error { return errors.New("backend unreachable") },
	)
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

// The readiness pattern used by the server binaries: a flag flipped
// once the backend clients exist.
func TestReadinessFlip(t *testing.T) {
	var ready atomic.Bool
	h := New(func() error {
		if !ready.Load() {
			return errors.New("backend clients not yet initialized")
		}
		return nil
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("before flip: got status %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	ready.Store(true)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("after flip: got status %d, want %d", w.Code, http.StatusOK)
	}
}
