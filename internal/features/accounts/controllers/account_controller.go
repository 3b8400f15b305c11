package accounts_controllers

import (
	"net/http"

	accounts_dto "zidotask/internal/features/accounts/dto"
	accounts_middleware "zidotask/internal/features/accounts/middleware"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type AccountController struct {
	accountService *accounts_services.AccountService
	sessionService *accounts_services.SessionService
	signinLimiter  *rate.Limiter
}

func (c *AccountController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/accounts/signup", c.SignUp)
	router.POST("/accounts/signin", c.SignIn)
}

func (c *AccountController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/accounts/me", c.GetCurrentAccount)
	router.PUT("/accounts/me", c.UpdateProfile)
	router.PUT("/accounts/change-password", c.ChangePassword)
	router.POST("/accounts/signout", c.SignOut)
}

func (c *AccountController) SetSignInLimiter(limiter *rate.Limiter) {
	c.signinLimiter = limiter
}

// SignUp
// @Summary Register a new account
// @Description Register a new account with email and password
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body accounts_dto.SignUpRequestDTO true "Account signup data"
// @Success 200 {object} accounts_dto.AccountProfileResponseDTO
// @Failure 400 {object} map[string]string
// @Router /accounts/signup [post]
func (c *AccountController) SignUp(ctx *gin.Context) {
	var request accounts_dto.SignUpRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	account, err := c.accountService.SignUp(ctx.Request.Context(), &request)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.accountService.GetProfile(account))
}

// SignIn
// @Summary Authenticate an account
// @Description Authenticate with email and password and open a session
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body accounts_dto.SignInRequestDTO true "Account signin data"
// @Success 200 {object} accounts_dto.SignInResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /accounts/signin [post]
func (c *AccountController) SignIn(ctx *gin.Context) {
	// brute force protection
	if !c.signinLimiter.Allow() {
		app_errors.WriteError(ctx, app_errors.RateLimited("Rate limit exceeded. Please try again later."))
		return
	}

	var request accounts_dto.SignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.accountService.SignIn(ctx.Request.Context(), &request)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetCurrentAccount
// @Summary Get current account profile
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} accounts_dto.AccountProfileResponseDTO
// @Failure 401 {object} map[string]string
// @Router /accounts/me [get]
func (c *AccountController) GetCurrentAccount(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	ctx.JSON(http.StatusOK, c.accountService.GetProfile(account))
}

// UpdateProfile
// @Summary Update current account profile
// @Description Change display name and avatar
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body accounts_dto.UpdateProfileRequestDTO true "Profile data"
// @Success 200 {object} accounts_dto.AccountProfileResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /accounts/me [put]
func (c *AccountController) UpdateProfile(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	var request accounts_dto.UpdateProfileRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.accountService.UpdateProfile(ctx.Request.Context(), account, &request)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ChangePassword
// @Summary Change account password
// @Description Change the password, sign out every session and open a new one
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body accounts_dto.ChangePasswordRequestDTO true "New password data"
// @Success 200 {object} accounts_dto.SignInResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /accounts/change-password [put]
func (c *AccountController) ChangePassword(ctx *gin.Context) {
	account, ok := accounts_middleware.GetPrincipalFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	var request accounts_dto.ChangePasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	response, err := c.accountService.ChangePassword(ctx.Request.Context(), account, request.NewPassword)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// SignOut
// @Summary Sign out
// @Description Revoke the current session
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /accounts/signout [post]
func (c *AccountController) SignOut(ctx *gin.Context) {
	session, ok := accounts_middleware.GetSessionFromContext(ctx)
	if !ok {
		app_errors.WriteError(ctx, app_errors.NotAuthenticated("account not authenticated"))
		return
	}

	if err := c.sessionService.SignOut(ctx.Request.Context(), session); err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}
