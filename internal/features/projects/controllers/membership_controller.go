package projects_controllers

import (
	"net/http"

	accounts_middleware "zidotask/internal/features/accounts/middleware"
	projects_dto "zidotask/internal/features/projects/dto"
	projects_services "zidotask/internal/features/projects/services"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MembershipController struct {
	membershipService *projects_services.MembershipService
}

func (c *MembershipController) RegisterRoutes(router *gin.RouterGroup) {
	projectRoutes := router.Group("/projects/memberships/:id")

	projectRoutes.GET("/members", c.ListMembers)
	projectRoutes.POST("/members", c.AddMember)
	projectRoutes.PUT("/members/:accountId/role", c.ChangeMemberRole)
	projectRoutes.DELETE("/members/:accountId", c.RemoveMember)
}

// ListMembers
// @Summary List project members
// @Description Explicit project members ordered by role, then by join date
// @Tags project-membership
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} projects_dto.GetMembersResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/memberships/{id}/members [get]
func (c *MembershipController) ListMembers(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid project ID"))
		return
	}

	response, err := c.membershipService.GetMembers(ctx.Request.Context(), projectID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AddMember
// @Summary Add a team member to the project
// @Tags project-membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body projects_dto.AddMemberRequestDTO true "Member addition data"
// @Success 200 {object} memberships.ProjectMembership
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /projects/memberships/{id}/members [post]
func (c *MembershipController) AddMember(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid project ID"))
		return
	}

	var request projects_dto.AddMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.membershipService.AddMember(ctx.Request.Context(), projectID, &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ChangeMemberRole
// @Summary Change project member role
// @Tags project-membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param accountId path string true "Member account ID"
// @Param request body projects_dto.ChangeMemberRoleRequestDTO true "New role"
// @Success 200 {object} memberships.ProjectMembership
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /projects/memberships/{id}/members/{accountId}/role [put]
func (c *MembershipController) ChangeMemberRole(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid project ID"))
		return
	}

	memberAccountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid account ID"))
		return
	}

	var request projects_dto.ChangeMemberRoleRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.membershipService.ChangeMemberRole(
		ctx.Request.Context(),
		projectID,
		memberAccountID,
		&request,
		account,
	)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// RemoveMember
// @Summary Remove project member
// @Tags project-membership
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param accountId path string true "Member account ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /projects/memberships/{id}/members/{accountId} [delete]
func (c *MembershipController) RemoveMember(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid project ID"))
		return
	}

	memberAccountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid account ID"))
		return
	}

	err = c.membershipService.RemoveMember(ctx.Request.Context(), projectID, memberAccountID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
