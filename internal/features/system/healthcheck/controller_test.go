package system_healthcheck

import (
	"context"
	"net/http"
	"os"
	"testing"

	test_utils "zidotask/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CheckHealth_WhenDependenciesAnswer_ReturnsOkWithDiskUsage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	GetHealthcheckController().RegisterRoutes(router.Group("/api/v1"))

	var response HealthcheckResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/system/health", "", http.StatusOK, &response)

	assert.Equal(t, "ok", response.Status)
	assert.Empty(t, response.Error)
	require.NotNil(t, response.Disk)
	assert.Greater(t, response.Disk.TotalBytes, uint64(0))
}

func Test_GetDiskUsage_WithMissingPath_ReturnsError(t *testing.T) {
	service := &HealthcheckService{diskPath: "/path/that/does/not/exist"}

	_, err := service.GetDiskUsage(context.Background())

	assert.Error(t, err)
}

func Test_GetDiskUsage_WithTempDir_ReportsConsistentNumbers(t *testing.T) {
	service := &HealthcheckService{diskPath: os.TempDir()}

	usage, err := service.GetDiskUsage(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, usage.UsedBytes, usage.TotalBytes)
	assert.GreaterOrEqual(t, usage.UsedPercent, float64(0))
	assert.LessOrEqual(t, usage.UsedPercent, float64(100))
}
