package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"broker-demo-service/internal/adapters/clock"
	"broker-demo-service/internal/scenario"
	"broker-demo-service/internal/services"
)

func newTestRouter(t *testing.T) (http.Handler, *services.Engine, *clock.Manual) {
	t.Helper()

	scn, err := scenario.Default()
	if err != nil {
		t.Fatalf("default scenario: %v", err)
	}

	clk := clock.NewManual(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	engine, err := services.NewEngine(services.Config{Scenario: scn, Clock: clk})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	router := NewRouter(engine, http.NotFoundHandler(), http.NotFoundHandler())
	return router, engine, clk
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return rec, decoded
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %v, want ok", body["status"])
	}
	if body["timestamp"] == nil {
		t.Fatal("timestamp field missing")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header missing")
	}
}

func TestShipmentListAndCounts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/shipments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	shipments := body["shipments"].([]any)
	if len(shipments) != 4 {
		t.Fatalf("shipments = %d, want 4", len(shipments))
	}

	apCounts := body["ap_counts"].(map[string]any)
	if apCounts["new"].(float64) != 4 {
		t.Fatalf("ap new count = %v, want 4", apCounts["new"])
	}

	// Filter excludes everything while nothing has moved past "new".
	rec, body = doJSON(t, router, http.MethodGet, "/api/shipments?ap_status=audit_pass", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := len(body["shipments"].([]any)); got != 0 {
		t.Fatalf("filtered shipments = %d, want 0", got)
	}
}

func TestShipmentDetailNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/shipments/NOPE", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSimulationLifecycleOverHTTP(t *testing.T) {
	router, engine, clk := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/simulation/start", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", rec.Code)
	}
	if body["running"] != true || body["phase"] != "ap" {
		t.Fatalf("state after start = %v", body)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/simulation/start", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second start status = %d, want 409", rec.Code)
	}

	// Fire the first scripted step and read it back through the feed.
	engine.Advance(clk.Advance(2 * time.Second))
	rec, body = doJSON(t, router, http.MethodGet, "/api/activities", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("activities status = %d, want 200", rec.Code)
	}
	if len(body["activities"].([]any)) == 0 {
		t.Fatal("no activities after first step fired")
	}

	rec, body = doJSON(t, router, http.MethodPost, "/api/simulation/pause", "")
	if rec.Code != http.StatusOK || body["running"] != false {
		t.Fatalf("pause: status=%d state=%v", rec.Code, body)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/simulation/resume", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("resume status = %d, want 200", rec.Code)
	}

	rec, body = doJSON(t, router, http.MethodPost, "/api/simulation/reset", "")
	if rec.Code != http.StatusOK || body["phase"] != "idle" {
		t.Fatalf("reset: status=%d state=%v", rec.Code, body)
	}
}

func TestApproveValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/simulation/approve", `{"shipment_ref":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty ref status = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/simulation/approve", `{"shipment_ref":"NOPE"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown shipment status = %d, want 404", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/simulation/approve", `{"shipment_ref":"FL-2041"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("no pending draft status = %d, want 409", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/simulation/approve", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET approve status = %d, want 405", rec.Code)
	}
}

func TestCategoryFilterValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/activities?category=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
