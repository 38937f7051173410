package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.QuoteComputed("gold")
	m.QuoteComputed("gold")
	m.PricingApplied(true)
	m.SubmissionSerialised(false)
	m.CatalogIssues(3)
	m.CatalogIssues(0)

	if got := testutil.ToFloat64(m.computations.WithLabelValues("gold")); got != 2 {
		t.Fatalf("computations: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.applies.WithLabelValues("true")); got != 1 {
		t.Fatalf("applies: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("false")); got != 1 {
		t.Fatalf("submissions: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.issues); got != 3 {
		t.Fatalf("issues: want 3, got %v", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.QuoteComputed("silver")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `quote_computations_total{plan="silver"} 1`) {
		t.Fatalf("counter missing from exposition:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.QuoteComputed("gold")
	m.PricingApplied(false)
	m.SubmissionSerialised(true)
	m.CatalogIssues(1)
}
