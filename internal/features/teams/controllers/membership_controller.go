package teams_controllers

import (
	"net/http"

	accounts_middleware "zidotask/internal/features/accounts/middleware"
	teams_dto "zidotask/internal/features/teams/dto"
	teams_services "zidotask/internal/features/teams/services"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MembershipController struct {
	membershipService *teams_services.MembershipService
}

func (c *MembershipController) RegisterRoutes(router *gin.RouterGroup) {
	teamRoutes := router.Group("/teams/memberships/:id")

	teamRoutes.GET("/members", c.ListMembers)
	teamRoutes.POST("/members", c.AddMember)
	teamRoutes.PUT("/members/:accountId/role", c.ChangeMemberRole)
	teamRoutes.DELETE("/members/:accountId", c.RemoveMember)
	teamRoutes.POST("/transfer-ownership", c.TransferOwnership)
}

// ListMembers
// @Summary List team members
// @Description Members ordered by role (owner first), then by join date
// @Tags team-membership
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} teams_dto.GetMembersResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /teams/memberships/{id}/members [get]
func (c *MembershipController) ListMembers(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	teamID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
		return
	}

	response, err := c.membershipService.GetMembers(ctx.Request.Context(), teamID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AddMember
// @Summary Add an existing account to the team
// @Tags team-membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body teams_dto.AddMemberRequestDTO true "Member addition data"
// @Success 200 {object} memberships.TeamMembership
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /teams/memberships/{id}/members [post]
func (c *MembershipController) AddMember(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	teamID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
		return
	}

	var request teams_dto.AddMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.membershipService.AddMember(ctx.Request.Context(), teamID, &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ChangeMemberRole
// @Summary Change team member role
// @Tags team-membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param accountId path string true "Member account ID"
// @Param request body teams_dto.ChangeMemberRoleRequestDTO true "New role"
// @Success 200 {object} memberships.TeamMembership
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /teams/memberships/{id}/members/{accountId}/role [put]
func (c *MembershipController) ChangeMemberRole(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	teamID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
		return
	}

	memberAccountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid account ID"))
		return
	}

	var request teams_dto.ChangeMemberRoleRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.membershipService.ChangeMemberRole(
		ctx.Request.Context(),
		teamID,
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
// @Summary Remove team member
// @Description Also removes the member from the team's projects
// @Tags team-membership
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param accountId path string true "Member account ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /teams/memberships/{id}/members/{accountId} [delete]
func (c *MembershipController) RemoveMember(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	teamID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
		return
	}

	memberAccountID, err := uuid.Parse(ctx.Param("accountId"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid account ID"))
		return
	}

	err = c.membershipService.RemoveMember(ctx.Request.Context(), teamID, memberAccountID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// TransferOwnership
// @Summary Transfer team ownership
// @Description The current owner becomes an admin
// @Tags team-membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body teams_dto.TransferOwnershipRequestDTO true "New owner"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /teams/memberships/{id}/transfer-ownership [post]
func (c *MembershipController) TransferOwnership(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	teamID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
		return
	}

	var request teams_dto.TransferOwnershipRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	if err := c.membershipService.TransferOwnership(ctx.Request.Context(), teamID, &request, account); err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Ownership transferred successfully"})
}
