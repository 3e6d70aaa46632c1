package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0rails/v0rails/internal/config"
)

const cardSource = `const Card = ({ title, onClick }) => (
  <div className="card">
    <button onClick={onClick}>{title}</button>
  </div>
);
export default Card;
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Root = "."
	cfg.Server.MaxSourceBytes = 4096

	s, err := NewServer(zerolog.Nop(), cfg)
	require.NoError(t, err)
	return s
}

func post(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp["error"]
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Namespace = ""

	_, err := NewServer(zerolog.Nop(), cfg)
	assert.ErrorIs(t, err, config.ErrEmptyNamespace)
}

func TestConvert(t *testing.T) {
	s := newTestServer(t)

	rr := post(t, s, ConvertRequest{Filename: "Card.jsx", Source: cardSource})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.IR)
	assert.Equal(t, "Card", resp.IR.Name)
	assert.Equal(t, "card", resp.IR.SnakeCaseName)

	kinds := map[string]string{}
	for _, a := range resp.Artifacts {
		kinds[a.Kind] = a.Content
		assert.Empty(t, a.Status, "nothing is written to disk")
	}
	assert.Contains(t, kinds, "class")
	assert.Contains(t, kinds, "template")
	assert.Contains(t, kinds, "spec")
	assert.NotContains(t, kinds, "controller")
	assert.Contains(t, kinds["class"], "module Ui")
}

func TestConvert_Options(t *testing.T) {
	s := newTestServer(t)
	yes, no := true, false

	rr := post(t, s, ConvertRequest{
		Filename: "Card.tsx",
		Source:   cardSource,
		Options:  ConvertOptions{Namespace: "Admin::Ui", Stimulus: &yes, Tests: &no},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	kinds := map[string]string{}
	for _, a := range resp.Artifacts {
		kinds[a.Kind] = a.Path
	}
	assert.Contains(t, kinds, "controller")
	assert.NotContains(t, kinds, "spec")
	assert.Contains(t, kinds["class"], "admin/ui/card_component.rb")
}

func TestConvert_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{name: "malformed json", body: "{", status: http.StatusBadRequest, message: "invalid request body"},
		{name: "missing filename", body: ConvertRequest{Source: cardSource}, status: http.StatusBadRequest, message: "filename is required"},
		{name: "missing source", body: ConvertRequest{Filename: "Card.jsx"}, status: http.StatusBadRequest, message: "source is required"},
		{name: "unsupported language", body: ConvertRequest{Filename: "card.css", Source: "a {}"}, status: http.StatusBadRequest, message: "unsupported language"},
		{name: "invalid namespace", body: ConvertRequest{Filename: "Card.jsx", Source: cardSource, Options: ConvertOptions{Namespace: "not a module"}}, status: http.StatusBadRequest, message: "invalid namespace"},
		{name: "not a component", body: ConvertRequest{Filename: "consts.js", Source: "export const a = 1;"}, status: http.StatusUnprocessableEntity, message: "could not identify a component"},
		{name: "source too large", body: ConvertRequest{Filename: "Big.jsx", Source: strings.Repeat("x", 5000)}, status: http.StatusRequestEntityTooLarge, message: "source too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, s, tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, errorMessage(t, rr), tt.message)
		})
	}
}

func TestListEmitters(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/emitters", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []EmitterInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp)
	assert.Equal(t, "class", resp[0].Name)
	assert.Equal(t, "ruby", resp[0].Language)
	assert.Equal(t, "_component.rb", resp[0].Extension)
}

func TestCorsMiddleware(t *testing.T) {
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("sets CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Methods"))
		assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("answers preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
