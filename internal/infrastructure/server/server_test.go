package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/app"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/config"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngFrame = []byte("\x89PNG\r\n\x1a\nframe")

func newTestServer(t *testing.T) (*Server, *clock.Manual) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	cfg.Container.Dir = filepath.Join(t.TempDir(), "group")
	cfg.Container.CacheDir = filepath.Join(t.TempDir(), "cache")
	cfg.Container.BundleDir = filepath.Join(t.TempDir(), "bundle")

	for i := 1; i <= 3; i++ {
		p := filepath.Join(cfg.Container.BundleDir, "TestDesigns", "wave", "wave_frame_0"+string(rune('0'+i))+".png")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, pngFrame, 0o644))
	}

	clk := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	c, err := app.New(cfg, app.WithLogger(&logging.Logger{Logger: zap.NewNop()}), app.WithClock(clk))
	require.NoError(t, err)

	s, err := NewServer(c)
	require.NoError(t, err)
	return s, clk
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "precomputed", body["mode"])
	assert.Equal(t, "closed", body["frameCache"])
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestWidgetFlow(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/designs/wave/provision", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodPost, "/featured", map[string]string{"designId": "wave"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodPost, "/featured", map[string]string{"designId": "wave"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodGet, "/slots/"+types.KindSlotA+"/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var idle struct {
		Entries []types.TimelineEntry `json:"entries"`
		Policy  types.RefreshPolicy   `json:"policy"`
	}
	decode(t, w, &idle)
	require.Len(t, idle.Entries, 1)
	assert.Equal(t, types.PolicyNever, idle.Policy.Kind)
	id := idle.Entries[0].InstanceID

	w = do(t, s, http.MethodPost, "/instances/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var started map[string]interface{}
	decode(t, w, &started)
	assert.Equal(t, true, started["success"])

	w = do(t, s, http.MethodPost, "/instances/"+id+"/start", nil)
	decode(t, w, &started)
	assert.Equal(t, false, started["success"])

	w = do(t, s, http.MethodGet, "/slots/"+types.KindSlotA+"/timeline", nil)
	var animating struct {
		Entries []types.TimelineEntry `json:"entries"`
		Policy  types.RefreshPolicy   `json:"policy"`
	}
	decode(t, w, &animating)
	assert.Equal(t, types.PolicyAtEnd, animating.Policy.Kind)
	assert.Len(t, animating.Entries, 4) // 3 frames plus the reset entry

	w = do(t, s, http.MethodGet, "/instances/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inst types.WidgetInstance
	decode(t, w, &inst)
	assert.True(t, inst.IsAnimating)
	assert.Equal(t, "wave", inst.DesignID)
}

func TestFrameEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/designs/wave/provision", nil).Code)

	w := do(t, s, http.MethodGet, "/designs/wave/frames/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "store", w.Header().Get("X-Frame-Tier"))
	assert.Equal(t, pngFrame, w.Body.Bytes())

	w = do(t, s, http.MethodGet, "/designs/wave/frames/2", nil)
	assert.Equal(t, "cache", w.Header().Get("X-Frame-Tier"))

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/designs/wave/frames/9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/designs/wave/frames/zero", nil).Code)
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/slots/Bogus/timeline", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/instances/inst_missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/designs/ghost/provision", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/featured", map[string]string{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/featured", map[string]string{"designId": "bad id!"}).Code)
}

func TestReorderAndStats(t *testing.T) {
	s, _ := newTestServer(t)
	for _, id := range []string{"a1", "b2", "c3"} {
		require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/featured", map[string]string{"designId": id}).Code)
	}

	w := do(t, s, http.MethodPut, "/featured/order", map[string][]string{"designs": {"c3", "a1", "b2"}})
	require.Equal(t, http.StatusOK, w.Code)
	var reordered struct {
		Success  bool                   `json:"success"`
		Featured types.FeaturedRegistry `json:"featured"`
	}
	decode(t, w, &reordered)
	assert.True(t, reordered.Success)
	assert.Equal(t, []string{"c3", "a1", "b2"}, reordered.Featured.Designs)

	w = do(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPost, "/maintenance/cleanup", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "go_goroutines"))
}
