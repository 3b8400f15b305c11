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

type TeamController struct {
	teamService *teams_services.TeamService
}

func (c *TeamController) RegisterRoutes(router *gin.RouterGroup) {
	teamRoutes := router.Group("/teams")

	teamRoutes.POST("", c.CreateTeam)
	teamRoutes.GET("", c.GetTeams)
	teamRoutes.GET("/:id", c.GetTeam)
	teamRoutes.PUT("/:id", c.UpdateTeam)
	teamRoutes.DELETE("/:id", c.DeleteTeam)
}

// CreateTeam
// @Summary Create a new team
// @Description Create a team, the caller becomes its owner
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body teams_dto.CreateTeamRequestDTO true "Team creation data"
// @Success 200 {object} teams_dto.TeamResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	var request teams_dto.CreateTeamRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.teamService.CreateTeam(ctx.Request.Context(), &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetTeams
// @Summary List account's teams
// @Description Get list of teams the caller is a member of
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} teams_dto.ListTeamsResponseDTO
// @Failure 401 {object} map[string]string
// @Router /teams [get]
func (c *TeamController) GetTeams(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	response, err := c.teamService.GetAccountTeams(ctx.Request.Context(), account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetTeam
// @Summary Get team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} teams_dto.TeamResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /teams/{id} [get]
func (c *TeamController) GetTeam(ctx *gin.Context) {
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

	response, err := c.teamService.GetTeam(ctx.Request.Context(), teamID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateTeam
// @Summary Update team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body teams_dto.UpdateTeamRequestDTO true "Team data"
// @Success 200 {object} teams_dto.TeamResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /teams/{id} [put]
func (c *TeamController) UpdateTeam(ctx *gin.Context) {
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

	var request teams_dto.UpdateTeamRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.teamService.UpdateTeam(ctx.Request.Context(), teamID, &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteTeam
// @Summary Delete team
// @Description Delete the team with its projects, memberships and invitations. Owner only
// @Tags teams
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /teams/{id} [delete]
func (c *TeamController) DeleteTeam(ctx *gin.Context) {
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

	if err := c.teamService.DeleteTeam(ctx.Request.Context(), teamID, account); err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Team deleted successfully"})
}
