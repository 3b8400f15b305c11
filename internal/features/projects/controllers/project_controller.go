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

type ProjectController struct {
	projectService *projects_services.ProjectService
}

func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/teams/:id/projects", c.CreateProject)

	projectRoutes := router.Group("/projects")

	projectRoutes.GET("", c.GetProjects)
	projectRoutes.GET("/:id", c.GetProject)
	projectRoutes.PUT("/:id", c.UpdateProject)
	projectRoutes.DELETE("/:id", c.DeleteProject)
}

// CreateProject
// @Summary Create a new project
// @Description Create a project in the team, the caller becomes its manager
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body projects_dto.CreateProjectRequestDTO true "Project creation data"
// @Success 200 {object} projects_dto.ProjectResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /teams/{id}/projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
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

	var request projects_dto.CreateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.projectService.CreateProject(ctx.Request.Context(), teamID, &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProjects
// @Summary List projects
// @Description Projects the caller can see, optionally limited to one team
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param teamId query string false "Team ID"
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /projects [get]
func (c *ProjectController) GetProjects(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	var teamID *uuid.UUID
	if rawTeamID := ctx.Query("teamId"); rawTeamID != "" {
		parsedTeamID, err := uuid.Parse(rawTeamID)
		if err != nil {
			app_errors.WriteError(ctx, app_errors.Validation("Invalid team ID"))
			return
		}

		teamID = &parsedTeamID
	}

	response, err := c.projectService.GetAccountProjects(ctx.Request.Context(), teamID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProject
// @Summary Get project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} projects_dto.ProjectResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
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

	response, err := c.projectService.GetProject(ctx.Request.Context(), projectID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateProject
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body projects_dto.UpdateProjectRequestDTO true "Project data"
// @Success 200 {object} projects_dto.ProjectResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
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

	var request projects_dto.UpdateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.projectService.UpdateProject(ctx.Request.Context(), projectID, &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteProject
// @Summary Delete project
// @Tags projects
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
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

	if err := c.projectService.DeleteProject(ctx.Request.Context(), projectID, account); err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
