package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("GET", "/v1/products", 200, 42*time.Millisecond)
	m.Observe("GET", "/v1/products", 200, 10*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/v1/products",status="200"} 2`) {
		t.Fatalf("expected counter in scrape output:\n%s", body)
	}
	if !strings.Contains(body, `route="unknown"`) {
		t.Fatalf("expected empty route normalized to unknown:\n%s", body)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Millisecond)
	if m.Handler() == nil {
		t.Fatal("expected fallback handler")
	}
}
