package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubrik-monitor-backend/internal/controller"
	"rubrik-monitor-backend/internal/model"
	"rubrik-monitor-backend/internal/store"
)

func newTestRouter(snapshots store.SnapshotStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller.RegisterMonitorRoutes(router, controller.NewMonitorController(snapshots))
	return router
}

func TestGetStatsBeforeFirstCycle(t *testing.T) {
	router := newTestRouter(store.NewInMemorySnapshotStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/monitor/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "no snapshot collected yet"}`, w.Body.String())
}

func TestGetStatsServesPublishedPayloadVerbatim(t *testing.T) {
	snapshots := store.NewInMemorySnapshotStore()
	stats := model.NewStats()
	stats.SuccessCount = 12
	stats.NodeStatus = "OK"
	require.NoError(t, snapshots.Publish(stats))
	expected, _ := snapshots.Get()

	router := newTestRouter(snapshots)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/monitor/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(expected), w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestGetStatsServesErrorPayload(t *testing.T) {
	snapshots := store.NewInMemorySnapshotStore()
	snapshots.PublishError("Error getting data from Rubrik")

	router := newTestRouter(snapshots)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/monitor/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error": "Error getting data from Rubrik"}`, w.Body.String())
}

func TestGetHealth(t *testing.T) {
	router := newTestRouter(store.NewInMemorySnapshotStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/monitor/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "ok"}`, w.Body.String())
}
