package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRegistry(prometheus.NewRegistry()),
	)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestValidate(t *testing.T) {
	_, ts := newTestServer(t)

	code, out := post(t, ts, "/v1/validate", `{
		"config": {"operators": [{"identifier": "AND", "name": "and"}], "rules": []},
		"value": {"comparator": "AND", "children": [{"column": "x", "value": 1}]}
	}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["config_valid"])
	assert.Equal(t, true, out["value_valid"])
	assert.Equal(t, "ruleset", out["kind"])
	assert.Empty(t, out["errors"])

	code, out = post(t, ts, "/v1/validate", `{"value": {"column": "x", "value": 1}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["value_valid"])
	assert.Equal(t, "rule", out["kind"])
	assert.NotContains(t, out, "config_valid")

	code, out = post(t, ts, "/v1/validate", `{"value": null}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["value_valid"])
	assert.Equal(t, "null", out["kind"])

	code, out = post(t, ts, "/v1/validate", `{"config": {"operators": 3}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["config_valid"])
	assert.Len(t, out["errors"], 2)
}

func TestValidateBadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	for _, body := range []string{`{}`, `{"confg": {}}`, `not json`} {
		code, out := post(t, ts, "/v1/validate", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.Equal(t, codeBadRequest, out["error"].(map[string]any)["code"], body)
	}
}

func TestPrune(t *testing.T) {
	_, ts := newTestServer(t)
	value := `{"comparator": "AND", "children": [
		{"column": "a", "value": 1},
		{"comparator": "OR", "children": [{"comparator": "AND", "children": []}]}
	]}`

	code, out := post(t, ts, "/v1/prune", `{"max_depth": 1, "value": `+value+`}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["changed"])
	assert.Equal(t, map[string]any{"comparator": "AND", "children": []any{
		map[string]any{"column": "a", "value": 1.0},
		map[string]any{"comparator": "OR", "children": []any{}},
	}}, out["value"])

	code, out = post(t, ts, "/v1/prune", `{"max_depth": 5, "value": `+value+`}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["changed"])

	code, _ = post(t, ts, "/v1/prune", `{"value": `+value+`}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = post(t, ts, "/v1/prune", `{"max_depth": 1, "value": {"comparator": "AND"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, codeInvalidTree, out["error"].(map[string]any)["code"])
}

func TestApply(t *testing.T) {
	s, ts := newTestServer(t)

	code, out := post(t, ts, "/v1/apply", `{
		"config": {
			"operators": [{"identifier": "AND", "name": "and"}, {"identifier": "OR", "name": "or"}],
			"rules": [{"column": "num", "component": "number", "conditions": ["EQUALS", "LESS_THAN"]}]
		},
		"value": {"comparator": "AND", "children": []},
		"actions": [
			{"type": "add_rule", "path": "/", "column": "num"},
			{"type": "update_condition", "path": "/0", "condition": "LESS_THAN"},
			{"type": "update_value", "path": "/0", "value": 7},
			{"type": "delete", "path": "/4"}
		]
	}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"comparator": "AND", "children": []any{
		map[string]any{"column": "num", "condition": "LESS_THAN", "value": 7.0},
	}}, out["value"])
	assert.Len(t, out["emissions"], 3)

	outcomes := out["outcomes"].([]any)
	require.Len(t, outcomes, 4)
	assert.Equal(t, "INVALID_PATH", outcomes[3].(map[string]any)["error"])

	m := s.Metrics()
	assert.Equal(t, 3.0, testutil.ToFloat64(m.emissions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("add_rule", "true")))
}

func TestApplyRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t)

	code, out := post(t, ts, "/v1/apply", `{"config": {"operators": 1}, "actions": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, codeInvalidConfig, out["error"].(map[string]any)["code"])

	code, _ = post(t, ts, "/v1/apply", `{"value": {"column": "x", "value": 1}, "actions": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, out = post(t, ts, "/v1/apply", `{"actions": [{"type": "change_operator", "path": "/", "operator": "OR"}]}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"comparator": "OR", "children": []any{}}, out["value"])
}

func TestCanAccept(t *testing.T) {
	s, ts := newTestServer(t)
	chain := `{"comparator": "AND", "children": [{"comparator": "AND", "children": [{"comparator": "AND", "children": []}]}]}`

	code, out := post(t, ts, "/v1/can-accept", `{"node": `+chain+`, "target_depth": 2, "max_depth": 3}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["accept"])
	assert.Equal(t, 2.0, out["height"])

	code, out = post(t, ts, "/v1/can-accept", `{"node": `+chain+`, "target_depth": 1, "max_depth": 3}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["accept"])

	code, out = post(t, ts, "/v1/can-accept", `{"node": `+chain+`, "target_depth": 9}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["accept"])

	code, _ = post(t, ts, "/v1/can-accept", `{"node": `+chain+`, "target_depth": -1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	m := s.Metrics()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.drops.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.drops.WithLabelValues("false")))
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	post(t, ts, "/v1/validate", `{"value": null}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `qb_http_requests_total{code="200",route="/v1/validate"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/nope", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
