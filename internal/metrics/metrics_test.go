package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewIsolatedRegistries(t *testing.T) {
	// Each instance owns its registry, so creating two must not panic
	first := New()
	second := New()

	first.IncLogin("success")
	if got := testutil.ToFloat64(first.Logins.WithLabelValues("success")); got != 1 {
		t.Errorf("first logins = %v, want 1", got)
	}
	if got := testutil.ToFloat64(second.Logins.WithLabelValues("success")); got != 0 {
		t.Errorf("second logins = %v, want 0", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/health", 200, time.Now())
	m.ObserveStore("save", time.Now(), errors.New("boom"))
	m.AddAward(10, []string{"goals_1"})
	m.IncEmail("welcome", nil)
}

func TestAwardAndStoreCounters(t *testing.T) {
	m := New()
	m.AddAward(35, []string{"goals_1", "friends_5"})
	m.AddAward(0, []string{"goals_1"})
	m.ObserveStore("save", time.Now(), errors.New("disk full"))
	m.ObserveStore("save", time.Now(), nil)

	if got := testutil.ToFloat64(m.PointsAwarded); got != 35 {
		t.Errorf("points = %v, want 35", got)
	}
	if got := testutil.ToFloat64(m.BadgesAwarded.WithLabelValues("goals_1")); got != 2 {
		t.Errorf("goals_1 badges = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.StoreFailures.WithLabelValues("save")); got != 1 {
		t.Errorf("save failures = %v, want 1", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/api/login", 401, time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `schoolfit_http_requests_total{method="POST",route="/api/login",status="401"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}
