package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/ask", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/*", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("spa"))
	})

	tests := []struct {
		method, path, label, status string
	}{
		{"POST", "/ask", "/ask", "404"},
		{"GET", "/settings/profile", "/*", "200"},
		{"GET", "/assets/app.js", "/*", "200"},
	}
	for _, tc := range tests {
		before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.label, tc.status))

		req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)

		after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.label, tc.status))
		if after-before != 1 {
			t.Errorf("%s %s: expected one request under %q/%s, got delta %f",
				tc.method, tc.path, tc.label, tc.status, after-before)
		}
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestRouteLabel_NoChiContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", http.NoBody)
	if got := routeLabel(req); got != "unknown" {
		t.Errorf("routeLabel() = %q, want unknown", got)
	}
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rr, status: http.StatusOK}
	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	if w.status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.status, http.StatusTeapot)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}
