package solve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/powerplant/core/dispatch"
	"github.com/kilianp07/powerplant/core/dispatch/logging"
	"github.com/kilianp07/powerplant/core/model"
	"github.com/kilianp07/powerplant/infra/logger"
)

func newTestRouter(t *testing.T, token string) *http.ServeMux {
	t.Helper()
	mgr, err := dispatch.NewDispatchManager(dispatch.Solver{}, nil, 0, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	store, err := logging.NewJSONLStore(t.TempDir() + "/solves.jsonl")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	mgr.SetLogStore(store)
	t.Cleanup(func() { _ = mgr.Close() })
	return NewRouter(RouterConfig{Solver: mgr, Logs: store, Token: token, Logger: logger.NopLogger{}})
}

func post(t *testing.T, h http.Handler, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const singleGas = `{
  "load": %s,
  "fuels": {"gas(euro/MWh)": 13.4},
  "powerplants": [
    {"name": "gasfiredbig1", "type": "gasfired", "efficiency": 0.53, "pmin": 100, "pmax": %s}
  ]
}`

func body(load, pmax string) string {
	return fmt.Sprintf(singleGas, load, pmax)
}

func TestProductionPlanReturnsSolution(t *testing.T) {
	router := newTestRouter(t, "")
	for _, path := range []string{"/productionplan", "/solve"} {
		rr := post(t, router, path, body("300", "400"))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d: %s", path, rr.Code, rr.Body.String())
		}
		if strings.TrimSpace(rr.Body.String()) != `[{"name":"gasfiredbig1","p":300}]` {
			t.Fatalf("%s: unexpected body %s", path, rr.Body.String())
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: missing request id", path)
		}
	}
}

func TestProductionPlanMeritOrder(t *testing.T) {
	router := newTestRouter(t, "")
	payload := `{
	  "load": 480,
	  "fuels": {"gas(euro/MWh)": 13.4, "kerosine(euro/MWh)": 50.8, "co2(euro/ton)": 20, "wind(%)": 100},
	  "powerplants": [
	    {"name": "tj1", "type": "turbojet", "efficiency": 0.3, "pmin": 0, "pmax": 16},
	    {"name": "gasfiredbig1", "type": "gasfired", "efficiency": 0.53, "pmin": 100, "pmax": 460},
	    {"name": "windpark1", "type": "windturbine", "efficiency": 1, "pmin": 0, "pmax": 150}
	  ]
	}`
	rr := post(t, router, "/productionplan", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out []model.PlantConfiguration
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []model.PlantConfiguration{{Name: "windpark1", Power: 150}, {Name: "gasfiredbig1", Power: 330}, {Name: "tj1", Power: 0}}
	if len(out) != len(want) {
		t.Fatalf("unexpected plan %+v", out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("plan[%d] = %+v, want %+v", i, out[i], want[i])
		}
	}
}

func TestProductionPlanStatusCodes(t *testing.T) {
	router := newTestRouter(t, "")
	cases := []struct {
		name string
		body string
		code int
	}{
		{"infeasible", body("480", "460"), http.StatusBadRequest},
		{"incomplete", `{"load": 480, "fuels": {"gas(euro/MWh)": 13.4}}`, http.StatusUnprocessableEntity},
		{"malformed", `{"load": `, http.StatusUnprocessableEntity},
		{"wrong type", `{"load": "a lot"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rr := post(t, router, "/productionplan", tc.body)
		if rr.Code != tc.code {
			t.Errorf("%s: expected %d got %d (%s)", tc.name, tc.code, rr.Code, rr.Body.String())
		}
		var e errorBody
		if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil || e.Error == "" {
			t.Errorf("%s: expected error body, got %s", tc.name, rr.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/productionplan", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

type failingSolver struct{ err error }

func (f failingSolver) Solve(context.Context, model.Problem) (dispatch.Result, error) {
	return dispatch.Result{RequestID: "r1"}, f.err
}

func TestProductionPlanInvariantViolation(t *testing.T) {
	err := &dispatch.AllocationInvariantError{Load: 100, Reached: 80, Committed: 1}
	h := NewHandler(failingSolver{err: err}, logger.NopLogger{})
	rr := post(t, h, "/productionplan", body("100", "400"))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "reached") {
		t.Fatalf("internal details leaked: %s", rr.Body.String())
	}
}

func TestTokenRequired(t *testing.T) {
	router := newTestRouter(t, "tok")
	if rr := post(t, router, "/productionplan", body("300", "400")); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if rr := post(t, router, "/productionplan", body("300", "400"), "Authorization", "Bearer tok"); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz should not require a token, got %d", rr.Code)
	}
}

func TestLogEndpoint(t *testing.T) {
	router := newTestRouter(t, "tok")
	auth := []string{"Authorization", "Bearer tok"}
	post(t, router, "/productionplan", body("300", "400"), auth...)
	post(t, router, "/productionplan", body("480", "460"), auth...)

	get := func(url string, header ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		for i := 0; i+1 < len(header); i += 2 {
			req.Header.Set(header[i], header[i+1])
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	if rr := get("/api/solve/logs"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	rr := get("/api/solve/logs?plant=gasfiredbig1&outcome=infeasible", auth...)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []logging.LogRecord
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Load != 480 || out[0].Error == "" {
		t.Fatalf("unexpected records %+v", out)
	}

	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	rr = get("/api/solve/logs?start="+future, auth...)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rr.Body.String())
	}
	if rr := get("/api/solve/logs?start=yesterday", auth...); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad time, got %d", rr.Code)
	}
}
