package identity

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	callbackPath = "/api/v1/auth/oauth/gitea/callback"

	// binds the state to the browser that started the flow
	stateCookieName = "zt_oauth_state"
	stateCookiePath = "/api/v1/auth/oauth/gitea"
)

type OAuthController struct {
	// nil when gitea sign in is not configured
	provider        OAuthProvider
	resolver        *IdentityResolver
	stateStore      *OAuthStateStore
	sessionService  *accounts_services.SessionService
	callbackLimiter *rate.Limiter
	appBaseURL      string
}

func (c *OAuthController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/auth/oauth/gitea/start", c.StartGiteaSignIn)
	router.GET("/auth/oauth/gitea/callback", c.HandleGiteaCallback)
}

func (c *OAuthController) SetCallbackLimiter(limiter *rate.Limiter) {
	c.callbackLimiter = limiter
}

// StartGiteaSignIn
// @Summary Start Gitea sign in
// @Description Store an anti-forgery state and redirect to the Gitea authorization page
// @Tags identity
// @Param redirect query string false "Path of the app to return to after sign in"
// @Success 302
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/oauth/gitea/start [get]
func (c *OAuthController) StartGiteaSignIn(ctx *gin.Context) {
	if c.provider == nil {
		app_errors.WriteError(ctx, app_errors.NotFound("gitea sign in is not enabled"))
		return
	}

	var request OAuthStartRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	if request.Redirect != "" && !isAppPath(request.Redirect) {
		app_errors.WriteError(ctx, app_errors.Validation("redirect must be a path of this app"))
		return
	}

	state, err := c.stateStore.Save(ctx.Request.Context(), c.provider.Name(), request.Redirect)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	c.setStateCookie(ctx, state, int(oauthStateExpiry.Seconds()))
	ctx.Redirect(http.StatusFound, c.provider.AuthorizationURL(c.callbackURL(), state))
}

// HandleGiteaCallback
// @Summary Finish Gitea sign in
// @Description Exchange the authorization code, resolve the local account and open a session
// @Tags identity
// @Produce json
// @Param code query string false "Authorization code"
// @Param state query string true "Anti-forgery state"
// @Success 200 {object} accounts_dto.SignInResponseDTO
// @Success 302 "Redirect back to the app with the token in the fragment"
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /auth/oauth/gitea/callback [get]
func (c *OAuthController) HandleGiteaCallback(ctx *gin.Context) {
	if c.provider == nil {
		app_errors.WriteError(ctx, app_errors.NotFound("gitea sign in is not enabled"))
		return
	}

	if !c.callbackLimiter.Allow() {
		app_errors.WriteError(ctx, app_errors.RateLimited("Rate limit exceeded. Please try again later."))
		return
	}

	var request OAuthCallbackRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		app_errors.WriteError(ctx, app_errors.Validation("Invalid request format"))
		return
	}

	if request.Error != "" {
		message := request.ErrorDescription
		if message == "" {
			message = request.Error
		}

		app_errors.WriteError(
			ctx,
			app_errors.Validation(fmt.Sprintf("gitea authorization failed: %s", message)).
				WithCode("OAUTH_PROVIDER_ERROR"),
		)
		return
	}

	browserState, _ := ctx.Cookie(stateCookieName)
	c.setStateCookie(ctx, "", -1)

	if browserState == "" || subtle.ConstantTimeCompare([]byte(browserState), []byte(request.State)) != 1 {
		app_errors.WriteError(
			ctx,
			app_errors.Validation("oauth state does not belong to this browser").WithCode("INVALID_OAUTH_STATE"),
		)
		return
	}

	state, err := c.stateStore.Consume(ctx.Request.Context(), c.provider.Name(), request.State)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	if request.Code == "" {
		app_errors.WriteError(ctx, app_errors.Validation("missing authorization code"))
		return
	}

	_, profile, err := c.provider.ExchangeCodeForToken(ctx.Request.Context(), request.Code, c.callbackURL())
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	account, err := c.resolver.Resolve(ctx.Request.Context(), c.provider.Name(), profile)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	response, err := c.sessionService.CreateSession(ctx.Request.Context(), account)
	if err != nil {
		app_errors.WriteError(ctx, err)
		return
	}

	if state.Redirect != "" {
		ctx.Redirect(http.StatusFound, c.appBaseURL+state.Redirect+"#token="+url.QueryEscape(response.Token))
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *OAuthController) setStateCookie(ctx *gin.Context, state string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		stateCookieName,
		state,
		maxAge,
		stateCookiePath,
		"",
		strings.HasPrefix(c.appBaseURL, "https://"),
		true,
	)
}

func (c *OAuthController) callbackURL() string {
	return c.appBaseURL + callbackPath
}

// isAppPath accepts only same-origin absolute paths.
func isAppPath(redirect string) bool {
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") || strings.Contains(redirect, "\\") {
		return false
	}

	parsed, err := url.Parse(redirect)

	return err == nil && parsed.Scheme == "" && parsed.Host == ""
}
