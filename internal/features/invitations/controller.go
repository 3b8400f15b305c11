package invitations

import (
	"net/http"

	accounts_middleware "zidotask/internal/features/accounts/middleware"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationController struct {
	invitationService *InvitationService
}

func (c *InvitationController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/teams/:id/invitations", c.CreateInvitation)
	router.GET("/teams/:id/invitations", c.ListTeamInvitations)

	invitationRoutes := router.Group("/invitations/team")

	invitationRoutes.GET("", c.PreviewInvitation)
	invitationRoutes.POST("/accept", c.AcceptInvitation)
	invitationRoutes.POST("/decline", c.DeclineInvitation)
}

// CreateInvitation
// @Summary Invite someone to the team
// @Description Returns the invitation link. The token is shown only once
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body CreateInvitationRequestDTO true "Invitation data"
// @Success 200 {object} CreateInvitationResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /teams/{id}/invitations [post]
func (c *InvitationController) CreateInvitation(ctx *gin.Context) {
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

	var request CreateInvitationRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.invitationService.CreateInvitation(ctx.Request.Context(), teamID, &request, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ListTeamInvitations
// @Summary List team invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} ListInvitationsResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /teams/{id}/invitations [get]
func (c *InvitationController) ListTeamInvitations(ctx *gin.Context) {
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

	response, err := c.invitationService.ListTeamInvitations(ctx.Request.Context(), teamID, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// PreviewInvitation
// @Summary Preview a team invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param token query string true "Invitation token"
// @Success 200 {object} InvitationPreviewResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /invitations/team [get]
func (c *InvitationController) PreviewInvitation(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	token := ctx.Query("token")
	if token == "" {
		app_errors.WriteError(ctx, app_errors.Validation("Invitation token is required"))
		return
	}

	response, err := c.invitationService.PreviewInvitation(ctx.Request.Context(), token, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AcceptInvitation
// @Summary Accept a team invitation
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InvitationTokenRequestDTO true "Invitation token"
// @Success 200 {object} AcceptInvitationResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /invitations/team/accept [post]
func (c *InvitationController) AcceptInvitation(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	var request InvitationTokenRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.invitationService.AcceptInvitation(ctx.Request.Context(), request.Token, account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeclineInvitation
// @Summary Decline a team invitation
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InvitationTokenRequestDTO true "Invitation token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /invitations/team/decline [post]
func (c *InvitationController) DeclineInvitation(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	var request InvitationTokenRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	if err := c.invitationService.DeclineInvitation(ctx.Request.Context(), request.Token, account); err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}
