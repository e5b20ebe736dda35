package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/plugins"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Meta struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	c := core.MustSetupCore(core.CoreConfig{
		Log:      core.Log{Level: "error"},
		Store:    core.StoreConfig{Driver: core.STORE_DRIVER_MEMORY},
		Security: core.Security{JWTSecret: "router-secret"},
	})
	plugins.Setup(c.InstallPlugins, "selfhost")
	return &testServer{t: t, engine: newEngine(c)}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var res envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	}
	return w, res
}

func (s *testServer) login(email string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/v1/user/signup", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(s.t, http.StatusOK, w.Code)

	w, res := s.do(http.MethodPost, "/api/v1/user/login", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(s.t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(res.Data, &data))
	require.NotEmpty(s.t, data.Token)
	s.token = data.Token

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	require.NotNil(s.t, session)
	assert.Equal(s.t, data.Token, session.Value)
}

func TestRouterRequiresSession(t *testing.T) {
	s := newTestServer(t)

	w, res := s.do(http.MethodGet, "/api/v1/journal/list", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, res.Meta.Code)
	assert.NotEmpty(t, res.Meta.RequestID)

	s.token = "not-a-jwt"
	w, _ = s.do(http.MethodGet, "/api/v1/journal/list", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, res = s.do(http.MethodGet, "/api/v1/mode", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"selfhost"`, string(res.Data))
}

func TestRouterJournalGraph(t *testing.T) {
	s := newTestServer(t)
	s.login("router@example.org")

	create := func(title string) string {
		w, res := s.do(http.MethodPost, "/api/v1/journal", map[string]any{
			"paper":    map[string]string{"title": title},
			"category": map[string]string{"name": "Bone"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var data struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(res.Data, &data))
		return data.ID
	}
	a := create("A")
	b := create("B")

	w, res := s.do(http.MethodPost, "/api/v1/journal", map[string]any{
		"paper":    map[string]string{"title": "A"},
		"category": map[string]string{"name": "Other"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This paper is already saved in your journal", res.Meta.Message)

	w, _ = s.do(http.MethodPost, "/api/v1/journal/graph/connection", map[string]string{
		"source":       a,
		"target":       b,
		"relationship": "builds on",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/api/v1/journal/graph/connection", map[string]string{
		"source":       a,
		"target":       a,
		"relationship": "loop",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res = s.do(http.MethodGet, "/api/v1/journal/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var graph struct {
		Nodes []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"nodes"`
		Edges []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &graph))
	assert.Len(t, graph.Nodes, 3)
	assert.Len(t, graph.Edges, 3)

	w, _ = s.do(http.MethodPut, "/api/v1/journal/graph/node/"+a+"/position", map[string]float64{"x": 1, "y": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/journal/graph/edge/user-edge-"+a+"-"+b, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/v1/journal/graph/edge/user-edge-"+a+"-"+b, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, res = s.do(http.MethodGet, "/api/v1/journal/saved?title=B", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"saved":true,"id":"`+b+`"}`, string(res.Data))

	w, _ = s.do(http.MethodDelete, "/api/v1/journal/"+b, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/journal/"+b, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterLoginLimit(t *testing.T) {
	s := newTestServer(t)

	var last int
	for range LIMIT_AUTH*2 + 1 {
		w, _ := s.do(http.MethodPost, "/api/v1/user/login", map[string]string{
			"email":    "nobody@example.org",
			"password": "password",
		})
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouterMetrics(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/mode", nil)

	w, _ := s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stellar_api_core_http_request_duration_seconds")
}
