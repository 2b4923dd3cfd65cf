package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/metrics"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appendOne = `{
	"start": "q0",
	"empty_symbol": "_",
	"halt": "qh",
	"tape": "11",
	"rules": ["q0,1,1,R,q0", "q0,_,1,N,qh"]
}`

func newServer(t *testing.T, opts ...turinghttp.Option) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(turinghttp.NewHandler(session.NewManager(memory.NewStore()), opts...))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func create(t *testing.T, srv *httptest.Server, id, config string) {
	t.Helper()
	resp, body := do(t, http.MethodPost, srv.URL+"/machines", `{"id": "`+id+`", "config": `+config+`}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
}

func TestServer_Lifecycle(t *testing.T) {
	srv := newServer(t)
	create(t, srv, "m1", appendOne)

	resp, body := do(t, http.MethodGet, srv.URL+"/machines", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"m1"}, body["sessions"])

	resp, body = do(t, http.MethodGet, srv.URL+"/machines/m1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := body["view"].(map[string]any)
	assert.Equal(t, "normal", view["phase"])
	assert.Equal(t, "At state", view["description"])

	resp, body = do(t, http.MethodPost, srv.URL+"/machines/m1/advance?steps=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 25, body["transitions"])
	view = body["view"].(map[string]any)
	assert.Equal(t, true, view["halted"])
	assert.Equal(t, []any{"1", "1", "1"}, view["tape"])
	assert.EqualValues(t, 4, view["op_counter"])

	resp, body = do(t, http.MethodPost, srv.URL+"/machines/m1/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["view"].(map[string]any)["op_counter"])

	resp, _ = do(t, http.MethodDelete, srv.URL+"/machines/m1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/machines/m1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_GeneratedID(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/machines", `{"config": `+appendOne+`}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	assert.Len(t, id, 36)
}

func TestServer_Errors(t *testing.T) {
	srv := newServer(t)
	create(t, srv, "stuck", `{"start": "a", "empty_symbol": "_", "tape": "1", "rules": ["a,_,1,N,a"]}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad json", http.MethodPost, "/machines", `{`, http.StatusBadRequest},
		{"missing key", http.MethodPost, "/machines", `{"config": {"start": "a"}}`, http.StatusBadRequest},
		{"bad rule shape", http.MethodPost, "/machines", `{"config": {"start": "a", "empty_symbol": "_", "rules": ["a,1"]}}`, http.StatusBadRequest},
		{"permissive head out of range", http.MethodPost, "/machines", `{"permissive": true, "config": {"start": "a", "empty_symbol": "_", "tape": "11", "head": 7, "rules": ["a,1,1,R,a"]}}`, http.StatusBadRequest},
		{"duplicate rule", http.MethodPost, "/machines", `{"config": {"start": "a", "empty_symbol": "_", "rules": ["a,1,1,R,a", "a,1,0,L,a"]}}`, http.StatusBadRequest},
		{"unknown session", http.MethodPost, "/machines/nope/advance", "", http.StatusNotFound},
		{"bad steps", http.MethodPost, "/machines/stuck/advance?steps=zero", "", http.StatusBadRequest},
		{"unknown format", http.MethodGet, "/machines/stuck/graph?format=svg", "", http.StatusBadRequest},
		{"step error", http.MethodPost, "/machines/stuck/advance?steps=10", "", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServer_StepErrorKeepsProgress(t *testing.T) {
	srv := newServer(t)
	create(t, srv, "stuck", `{"start": "a", "empty_symbol": "_", "tape": "1", "rules": ["a,_,1,N,a"]}`)

	resp, body := do(t, http.MethodPost, srv.URL+"/machines/stuck/advance?steps=10", "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.EqualValues(t, 2, body["transitions"])
	assert.Equal(t, "read_symbol", body["view"].(map[string]any)["phase"])
	assert.Contains(t, body["error"], "no action in state 'a' for read symbol '1'")
}

func TestServer_Graph(t *testing.T) {
	srv := newServer(t)
	create(t, srv, "m1", appendOne)

	resp, err := http.Get(srv.URL + "/machines/m1/graph")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/vnd.graphviz")
	assert.Contains(t, buf.String(), `"q0" [fillcolor=lightgrey, style=filled];`)

	resp, err = http.Get(srv.URL + "/machines/m1/graph?format=mermaid")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf.Reset()
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "graph LR"))
}

func TestServer_Preview(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/preview", `{"config": `+appendOne+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["valid"])
	assert.Nil(t, body["errors"])

	resp, body = do(t, http.MethodPost, srv.URL+"/preview",
		`{"format": "mermaid", "config": {"start": "a", "empty_symbol": "_", "rules": ["a,1,1,R,a", "a,1,0,L,b", "a,2,2,X,a"]}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"])
	assert.Len(t, body["errors"], 2)
	assert.Contains(t, body["graph"], "s_b")
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	mgr := session.NewManager(memory.NewStore(), session.WithLifecycleHooks(m.Hooks()))
	srv := httptest.NewServer(turinghttp.NewHandler(mgr,
		turinghttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	))
	defer srv.Close()

	create(t, srv, "m1", appendOne)
	resp, _ := do(t, http.MethodPost, srv.URL+"/machines/m1/advance?steps=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "turing_steps_total 3")
	assert.Contains(t, buf.String(), "turing_halts_total 1")
}

func TestServer_Health(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, _ = do(t, http.MethodOptions, srv.URL+"/machines", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
