package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

const rigScene = `{
  "nodes": [
    {"name": "con", "type": "locator", "values": {"translate": [1, 1, 3]}},
    {"name": "target", "type": "locator", "values": {"t": [2, 1, 1]}},
    {"name": "up", "type": "locator", "values": {"translate": [2, 10, 1]}},
    {"name": "solver", "type": "aimConstraint"}
  ],
  "connections": [
    {"from": "con.worldMatrix", "to": "solver.constraintMatrix"},
    {"from": "target.wm", "to": "solver.aimMatrix"},
    {"from": "up.wm", "to": "solver.worldUpMatrix"}
  ],
  "evaluate": ["solver.constraintRotate", "solver.nope"]
}`

func newTestHandler(t *testing.T, opts ...sinew.Option) http.Handler {
	t.Helper()
	h, err := NewHandler(sinew.New(opts...), WithGatherer(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestListTypes(t *testing.T) {
	w := do(newTestHandler(t), "GET", "/types", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var types []struct {
		Name       string           `json:"name"`
		TypeID     string           `json:"type_id"`
		Attributes []map[string]any `json:"attributes"`
	}
	decode(t, w, &types)

	var names []string
	for _, nt := range types {
		names = append(names, nt.Name)
	}
	if got := strings.Join(names, ","); got != "aimConstraint,locator,sineNode" {
		t.Errorf("Expected sorted built-in types, got %s", got)
	}
}

func TestGetType(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "GET", "/types/locator", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var nt struct {
		Name string `json:"name"`
	}
	decode(t, w, &nt)
	if nt.Name != "locator" {
		t.Errorf("Expected locator, got %q", nt.Name)
	}

	w = do(h, "GET", "/types/nurbsCurve", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestEvaluateScene(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(promReg)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHandler(sinew.New(sinew.WithLifecycleHooks(m.Hooks())), WithGatherer(promReg))
	if err != nil {
		t.Fatal(err)
	}

	w := do(h, "POST", "/evaluate", rigScene)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results map[string][]float64 `json:"results"`
		Errors  map[string]string    `json:"errors"`
	}
	decode(t, w, &resp)

	rot := resp.Results["solver.constraintRotate"]
	if len(rot) != 3 || math.Abs(rot[1]-63.43494882292201) > 1e-9 {
		t.Errorf("Unexpected rotation %v", rot)
	}
	if _, ok := resp.Errors["solver.nope"]; !ok {
		t.Errorf("Expected an error for solver.nope, got %v", resp.Errors)
	}

	w = do(h, "GET", "/metrics", "")
	if !strings.Contains(w.Body.String(), `sinew_computes_total{node_type="aimConstraint",status="handled"} 1`) {
		t.Errorf("Expected compute counter in metrics output, got:\n%s", w.Body.String())
	}
}

func TestEvaluateScene_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown key", `{"nodes": [], "nodez": []}`, http.StatusBadRequest},
		{"missing nodes", `{}`, http.StatusBadRequest},
		{"node without type", `{"nodes": [{"name": "a"}]}`, http.StatusBadRequest},
		{"unknown node type", `{"nodes": [{"name": "a", "type": "nurbsCurve"}]}`, http.StatusUnprocessableEntity},
		{"bad value", `{"nodes": [{"name": "a", "type": "locator", "values": {"translate": "here"}}]}`, http.StatusUnprocessableEntity},
		{"not json", `nodes: []`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, "POST", "/evaluate", tt.body)
			if w.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			var resp map[string]string
			decode(t, w, &resp)
			if resp["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestEvaluateScene_RequiresJSONContentType(t *testing.T) {
	req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(rigScene))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestSolveAim(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/aim", `{"constraint": [1, 1, 3], "aim": [2, 1, 1], "up": [2, 10, 1]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var sol struct {
		Rotate   []float64 `json:"rotate"`
		Fallback string    `json:"fallback"`
	}
	decode(t, w, &sol)
	if math.Abs(sol.Rotate[1]-63.43494882292201) > 1e-9 {
		t.Errorf("Unexpected rotation %v", sol.Rotate)
	}
	if sol.Fallback != "none" {
		t.Errorf("Expected no fallback, got %q", sol.Fallback)
	}

	w = do(h, "POST", "/aim", `{"constraint": [0, 0, 0], "aim": [0, 0, 0], "up": [0, 1, 0]}`)
	decode(t, w, &sol)
	if w.Code != http.StatusOK || sol.Fallback != "aim" {
		t.Errorf("Expected aim fallback, got %d %q", w.Code, sol.Fallback)
	}

	w = do(h, "POST", "/aim", `{"constraint": [0, 0, 0], "aim": [0, 0, 0], "up": [0, 1, 0], "strict": true}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 in strict mode, got %d", w.Code)
	}

	w = do(h, "POST", "/aim", `{"constraint": [0, 0], "aim": [1, 0, 0], "up": [0, 1, 0]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a short vector, got %d", w.Code)
	}
}

func TestReduceKeyframes(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/keyframes/reduce",
		`{"keys": [{"time": 3, "value": 3}, {"time": 1, "value": 1}, {"time": 2, "value": 2}], "epsilon": 0.01}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Kept    []map[string]float64 `json:"kept"`
		Removed []map[string]float64 `json:"removed"`
	}
	decode(t, w, &res)
	if len(res.Kept) != 2 || res.Kept[0]["time"] != 1 || res.Kept[1]["time"] != 3 {
		t.Errorf("Unexpected kept keys %v", res.Kept)
	}
	if len(res.Removed) != 1 || res.Removed[0]["time"] != 2 {
		t.Errorf("Unexpected removed keys %v", res.Removed)
	}

	w = do(h, "POST", "/keyframes/reduce", `{"keys": [{"time": 1, "value": 1}, {"time": 1, "value": 2}], "epsilon": 0}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for duplicate times, got %d", w.Code)
	}

	w = do(h, "POST", "/keyframes/reduce", `{"keys": [], "epsilon": -1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative epsilon, got %d", w.Code)
	}

	w = do(h, "POST", "/keyframes/reduce", `{"keys": [{"time": 1}], "epsilon": 0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a key without value, got %d", w.Code)
	}
}

func TestStaticRoutes(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "GET", "/openapi.yaml", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "openapi: 3.0.3") {
		t.Errorf("Expected embedded spec, got %d", w.Code)
	}

	w = do(h, "GET", "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("Expected health ok, got %d %s", w.Code, w.Body.String())
	}

	w = do(h, "GET", "/info", "")
	var info map[string]string
	decode(t, w, &info)
	if info["api_version"] != "0.1.0" || info["version"] != strings.TrimSpace(sinew.Version) {
		t.Errorf("Unexpected info %v", info)
	}

	w = do(h, "OPTIONS", "/evaluate", "")
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS preflight response, got %d", w.Code)
	}
}
