package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rubrik-monitor-backend/internal/model"
	"rubrik-monitor-backend/internal/store"
)

type MonitorController struct {
	snapshots store.SnapshotStore
}

func NewMonitorController(snapshots store.SnapshotStore) *MonitorController {
	return &MonitorController{
		snapshots: snapshots,
	}
}

func RegisterMonitorRoutes(router *gin.Engine, controller *MonitorController) {
	v1Monitor := router.Group("/api/v1/monitor")
	{
		v1Monitor.GET("/stats", controller.GetStats)
		v1Monitor.GET("/health", controller.GetHealth)
	}
}

// GetStats godoc
// @Summary      Get the latest appliance snapshot
// @Description  Returns the most recently published aggregate under the "stats" key, or an {"error": "..."} object when the last poll cycle failed.
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  map[string]interface{} "Latest published snapshot"
// @Failure      503  {object}  map[string]interface{} "No snapshot collected yet"
// @Router       /api/v1/monitor/stats [get]
func (c *MonitorController) GetStats(ctx *gin.Context) {
	payload, ok := c.snapshots.Get()
	if !ok {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot collected yet"})
		return
	}
	ctx.Data(http.StatusOK, "application/json", payload)
}

// GetHealth godoc
// @Summary      Liveness check
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  model.Response
// @Router       /api/v1/monitor/health [get]
func (c *MonitorController) GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, model.NewResponse("ok", nil))
}
