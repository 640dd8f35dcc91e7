package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lvoinea/stuffkeeper/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

func probeHealth(t *testing.T, checks httpx.HealthChecks) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	return rr.Code, resp
}

func TestHealthHandler(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name: "all healthy",
			checks: httpx.HealthChecks{
				Database: &stubChecker{}, Redis: &stubChecker{}, EventBus: &stubChecker{},
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok", "database": "ok", "redis": "ok", "event_bus": "ok"},
		},
		{
			name: "database down",
			checks: httpx.HealthChecks{
				Database: &stubChecker{err: down}, Redis: &stubChecker{}, EventBus: &stubChecker{},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"status": "degraded", "database": "unreachable", "redis": "ok", "event_bus": "ok"},
		},
		{
			name: "redis down",
			checks: httpx.HealthChecks{
				Database: &stubChecker{}, Redis: &stubChecker{err: down}, EventBus: &stubChecker{},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"status": "degraded", "database": "ok", "redis": "unreachable", "event_bus": "ok"},
		},
		{
			name: "event bus down",
			checks: httpx.HealthChecks{
				Database: &stubChecker{}, Redis: &stubChecker{}, EventBus: &stubChecker{err: down},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"status": "degraded", "database": "ok", "redis": "ok", "event_bus": "unreachable"},
		},
		{
			name: "everything down",
			checks: httpx.HealthChecks{
				Database: &stubChecker{err: down}, Redis: &stubChecker{err: down}, EventBus: &stubChecker{err: down},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"status": "degraded", "database": "unreachable", "redis": "unreachable", "event_bus": "unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := probeHealth(t, tt.checks)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			for k, want := range tt.wantBody {
				if body[k] != want {
					t.Errorf("%s = %q, want %q", k, body[k], want)
				}
			}
		})
	}
}
