package audit_logs

import (
	"net/http"

	accounts_middleware "zidotask/internal/features/accounts/middleware"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditLogController struct {
	auditLogService *AuditLogService
}

func (c *AuditLogController) RegisterRoutes(router *gin.RouterGroup) {
	auditRoutes := router.Group("/audit-logs")

	auditRoutes.GET("/me", c.GetMyAuditLogs)
	auditRoutes.GET("/teams/:teamId", c.GetTeamAuditLogs)
}

// GetMyAuditLogs
// @Summary Get own audit logs
// @Description Retrieve audit logs of actions performed by the caller
// @Tags audit-logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Filter logs created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetAuditLogsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /audit-logs/me [get]
func (c *AuditLogController) GetMyAuditLogs(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	request := &GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid query parameters"))
		return
	}

	response, err := c.auditLogService.GetAccountAuditLogs(ctx.Request.Context(), account, request)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetTeamAuditLogs
// @Summary Get team audit logs
// @Description Retrieve audit logs of a team, available to its owner and admins
// @Tags audit-logs
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Filter logs created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetAuditLogsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /audit-logs/teams/{teamId} [get]
func (c *AuditLogController) GetTeamAuditLogs(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	teamID, err := uuid.Parse(ctx.Param("teamId"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
		return
	}

	request := &GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid query parameters"))
		return
	}

	response, err := c.auditLogService.GetTeamAuditLogs(ctx.Request.Context(), teamID, account, request)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
