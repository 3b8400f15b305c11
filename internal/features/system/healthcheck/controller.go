package system_healthcheck

import (
	"net/http"

	"zidotask/internal/util/logger"

	"github.com/gin-gonic/gin"
)

type HealthcheckResponseDTO struct {
	Status string     `json:"status"`
	Error  string     `json:"error,omitempty"`
	Disk   *DiskUsage `json:"disk,omitempty"`
}

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/health", c.CheckHealth)
}

// CheckHealth
// @Summary Check system health
// @Description Check that the database and the cache answer, and report disk usage
// @Tags system/health
// @Produce json
// @Success 200 {object} HealthcheckResponseDTO
// @Failure 503 {object} HealthcheckResponseDTO
// @Router /system/health [get]
func (c *HealthcheckController) CheckHealth(ctx *gin.Context) {
	if err := c.healthcheckService.IsAvailable(ctx.Request.Context()); err != nil {
		logger.GetLogger().Warn("Health check failed", "error", err)

		ctx.JSON(http.StatusServiceUnavailable, HealthcheckResponseDTO{
			Status: "unavailable",
			Error:  err.Error(),
		})
		return
	}

	response := HealthcheckResponseDTO{Status: "ok"}

	// disk usage is informational
	if usage, err := c.healthcheckService.GetDiskUsage(ctx.Request.Context()); err == nil {
		response.Disk = usage
	}

	ctx.JSON(http.StatusOK, response)
}
