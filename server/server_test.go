// SPDX-License-Identifier: MIT

package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wayfind/builder"
	"github.com/katalvlaran/wayfind/graphstore"
	"github.com/katalvlaran/wayfind/navigator"
	"github.com/katalvlaran/wayfind/repository/memory"
	"github.com/katalvlaran/wayfind/server"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newServer(t *testing.T) (http.Handler, *memory.Repository) {
	t.Helper()
	plan, err := builder.Build(nil, builder.Demo())
	require.NoError(t, err)
	repo := memory.New(plan.Locations, plan.Connections)
	quiet := log.New(io.Discard, "", 0)
	engine := navigator.New(graphstore.New(repo, graphstore.WithLogger(quiet)), repo, navigator.WithLogger(quiet))

	return server.New(engine, server.Options{Logger: quiet}).Handler(), repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())

	return out
}

func pathIDs(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["path"].([]any)
	require.True(t, ok, "path missing: %v", body)
	ids := make([]string, len(raw))
	for i, p := range raw {
		ids[i] = p.(map[string]any)["id"].(string)
	}

	return ids
}

func TestNavigate_Modes(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodPost, "/api/navigate", `{"startNodeId":"entry1","endNodeId":"exit1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "normal", body["mode"])
	assert.Equal(t, []string{"entry1", "hallway1", "hallway2", "exit1"}, pathIDs(t, body))
	assert.Equal(t, 30.0, body["cost"])
	_, err := uuid.Parse(body["requestId"].(string))
	assert.NoError(t, err)
	assert.Equal(t, body["requestId"], w.Header().Get("X-Request-ID"))

	w = do(t, h, http.MethodPost, "/api/navigate", `{"qrId":"qr-coffee","isEmergency":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "emergency", body["mode"])
	assert.Equal(t, []string{"shopA", "hallway2", "exit1"}, pathIDs(t, body))

	w = do(t, h, http.MethodPost, "/api/navigate", `{"endNodeId":"shopA"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "optimal-entrance", decode(t, w)["mode"])
}

func TestNavigate_Errors(t *testing.T) {
	h, _ := newServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{`, http.StatusBadRequest, "bad_request"},
		{"bad id", `{"startNodeId":"has space","endNodeId":"exit1"}`, http.StatusBadRequest, "bad_request"},
		{"emergency without start", `{"isEmergency":true}`, http.StatusBadRequest, "start_required"},
		{"no destination", `{"startNodeId":"entry1"}`, http.StatusBadRequest, "destination_required"},
		{"unknown start", `{"startNodeId":"ghost","endNodeId":"exit1"}`, http.StatusNotFound, "not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/navigate", tc.body)
			assert.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tc.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestNavigate_KeepsValidRequestID(t *testing.T) {
	h, _ := newServer(t)
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/navigate", strings.NewReader(`{"startNodeId":"entry1","endNodeId":"shopA"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["requestId"])
}

func TestCrowd_UpdateAndStatus(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodPost, "/api/crowd/update", `{"nodeId":"hallway2","count":8}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Crowd density updated", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "hallway2", data["nodeId"])
	assert.Equal(t, 8.0, data["count"])
	assert.Equal(t, "High", data["densityLevel"])

	w = do(t, h, http.MethodGet, "/api/crowd/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Len(t, status, 1)
	assert.Equal(t, "hallway2", status[0]["nodeId"])

	// The penalty is live for the next route.
	w = do(t, h, http.MethodPost, "/api/navigate", `{"startNodeId":"entry1","endNodeId":"exit1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50.0, decode(t, w)["cost"])
}

func TestCrowd_UpdateValidation(t *testing.T) {
	h, _ := newServer(t)
	for _, body := range []string{
		`{"count":3}`,
		`{"nodeId":"hallway1"}`,
		`{"nodeId":"hallway1","count":-1}`,
		`{"nodeId":"","count":1}`,
	} {
		w := do(t, h, http.MethodPost, "/api/crowd/update", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	// Zero is a valid count.
	w := do(t, h, http.MethodPost, "/api/crowd/update", `{"nodeId":"hallway1","count":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCrowd_PersistFailure(t *testing.T) {
	h, repo := newServer(t)
	repo.FailPersist = errors.New("disk full")

	w := do(t, h, http.MethodPost, "/api/crowd/update", `{"nodeId":"hallway1","count":9}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "persist_failed", decode(t, w)["code"])
}

func TestQR(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodGet, "/api/qr/qr-coffee", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "shopA", body["nodeId"])
	assert.Equal(t, "You are at Coffee Shop", body["message"])
	assert.Equal(t, map[string]any{"x": 20.0, "y": 5.0, "floor": 1.0}, body["position"])

	w = do(t, h, http.MethodGet, "/api/qr/qr-nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "qr_not_found", decode(t, w)["code"])
}

func TestQRCode_PNG(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodGet, "/api/qr/qr-coffee/code.png?size=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	w = do(t, h, http.MethodGet, "/api/qr/qr-nope/code.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGraphAdmin(t *testing.T) {
	h, repo := newServer(t)

	w := do(t, h, http.MethodGet, "/api/graph/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	st := decode(t, w)
	assert.Equal(t, 6.0, st["locationCount"])
	assert.Equal(t, 10.0, st["connectionCount"])

	w = do(t, h, http.MethodGet, "/api/locations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var locs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &locs))
	assert.Len(t, locs, 6)

	w = do(t, h, http.MethodGet, "/api/graph/audit", "")
	require.Equal(t, http.StatusOK, w.Code)
	audit := decode(t, w)
	assert.Equal(t, []any{}, audit["stranded"])
	assert.Equal(t, 1.0, audit["exitCount"])

	plan, err := builder.Build(nil, builder.Grid(3, 3, 10))
	require.NoError(t, err)
	require.NoError(t, repo.Seed(context.Background(), plan.Locations, plan.Connections))
	w = do(t, h, http.MethodPost, "/api/graph/reload", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode(t, w)["stats"].(map[string]any)
	assert.Equal(t, 9.0, stats["locationCount"])

	repo.FailLoad = errors.New("offline")
	w = do(t, h, http.MethodPost, "/api/graph/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "store_unavailable", decode(t, w)["code"])
}

func TestDebugVarsAndHealth(t *testing.T) {
	h, _ := newServer(t)
	do(t, h, http.MethodPost, "/api/navigate", `{"startNodeId":"entry1","endNodeId":"exit1"}`)

	w := do(t, h, http.MethodGet, "/debug/vars", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wayfind_navigate_total")

	w = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	h, _ := newServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/navigate", nil)
	req.Header.Set("Origin", "https://kiosk.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	plan, err := builder.Build(nil, builder.Demo())
	require.NoError(t, err)
	repo := memory.New(plan.Locations, plan.Connections)
	quiet := log.New(io.Discard, "", 0)
	engine := navigator.New(graphstore.New(repo, graphstore.WithLogger(quiet)), repo, navigator.WithLogger(quiet))
	h := server.New(engine, server.Options{CORSOrigins: []string{"https://kiosk.example"}, Logger: quiet}).Handler()

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/navigate", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		return w
	}

	w := preflight("https://kiosk.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://kiosk.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://elsewhere.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
