package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	accounts_dto "zidotask/internal/features/accounts/dto"
	accounts_services "zidotask/internal/features/accounts/services"
	identity_providers "zidotask/internal/features/identity/providers"
	"zidotask/internal/util/app_errors"
	test_utils "zidotask/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const testAppBaseURL = "https://app.example.com"

type fakeOAuthProvider struct {
	profile     *identity_providers.Profile
	exchangeErr error
	codes       []string
}

func (p *fakeOAuthProvider) Name() string {
	return "gitea"
}

func (p *fakeOAuthProvider) AuthorizationURL(redirectURI, state string) string {
	return "https://gitea.example.com/login/oauth/authorize?redirect_uri=" +
		url.QueryEscape(redirectURI) + "&state=" + url.QueryEscape(state)
}

func (p *fakeOAuthProvider) ExchangeCodeForToken(
	_ context.Context,
	code string,
	_ string,
) (*oauth2.Token, *identity_providers.Profile, error) {
	p.codes = append(p.codes, code)

	if p.exchangeErr != nil {
		return nil, nil, p.exchangeErr
	}

	return &oauth2.Token{AccessToken: p.profile.AccessToken}, p.profile, nil
}

func Test_StartGiteaSignIn_RedirectsToProviderWithState(t *testing.T) {
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: newTestProfile()})

	resp := test_utils.MakeGetRequest(t, router, "/api/v1/auth/oauth/gitea/start", "", http.StatusFound)

	location, err := url.Parse(resp.Headers.Get("Location"))
	require.NoError(t, err)

	assert.Equal(t, "gitea.example.com", location.Host)
	assert.Equal(t, testAppBaseURL+callbackPath, location.Query().Get("redirect_uri"))
	assert.NotEmpty(t, location.Query().Get("state"))
}

func Test_StartGiteaSignIn_WithForeignRedirect_ReturnsBadRequest(t *testing.T) {
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: newTestProfile()})

	for _, redirect := range []string{"https://evil.example.com", "//evil.example.com/path", "dashboard"} {
		test_utils.MakeGetRequest(
			t,
			router,
			"/api/v1/auth/oauth/gitea/start?redirect="+url.QueryEscape(redirect),
			"",
			http.StatusBadRequest,
		)
	}
}

func Test_GiteaCallback_WithValidState_ReturnsUsableSession(t *testing.T) {
	provider := &fakeOAuthProvider{profile: newTestProfile()}
	router, auditWriter := createOAuthTestRouter(provider)

	state := startTestSignIn(t, router, "")

	var response accounts_dto.SignInResponseDTO
	resp := makeCallbackRequest(t, router, state, http.StatusOK)
	require.NoError(t, json.Unmarshal(resp.Body, &response))

	assert.Equal(t, provider.profile.Email, response.Email)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, []string{"good-code"}, provider.codes)

	account, _, err := accounts_services.GetSessionService().GetPrincipalFromToken(
		context.Background(),
		response.Token,
	)
	require.NoError(t, err)
	assert.Equal(t, response.AccountID, account.ID)

	assert.True(t, auditWriter.hasMessageContaining("Account created from gitea identity"))
}

func Test_GiteaCallback_WithRequestedRedirect_RedirectsWithTokenInFragment(t *testing.T) {
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: newTestProfile()})

	state := startTestSignIn(t, router, "/teams")

	resp := makeCallbackRequest(t, router, state, http.StatusFound)

	location := resp.Headers.Get("Location")
	assert.True(t, strings.HasPrefix(location, testAppBaseURL+"/teams#token="), location)
}

func Test_GiteaCallback_WhenStateIsReused_ReturnsBadRequest(t *testing.T) {
	provider := &fakeOAuthProvider{profile: newTestProfile()}
	router, _ := createOAuthTestRouter(provider)

	state := startTestSignIn(t, router, "")

	makeCallbackRequest(t, router, state, http.StatusOK)
	resp := makeCallbackRequest(t, router, state, http.StatusBadRequest)

	assert.Equal(t, "INVALID_OAUTH_STATE", errorCode(t, resp))
	assert.Len(t, provider.codes, 1)
}

func Test_GiteaCallback_WithUnknownState_DoesNotExchangeCode(t *testing.T) {
	provider := &fakeOAuthProvider{profile: newTestProfile()}
	router, _ := createOAuthTestRouter(provider)

	makeCallbackRequest(t, router, "forged", http.StatusBadRequest)

	assert.Empty(t, provider.codes)
}

func Test_GiteaCallback_WithoutStateCookie_ReturnsBadRequestAndKeepsState(t *testing.T) {
	provider := &fakeOAuthProvider{profile: newTestProfile()}
	router, _ := createOAuthTestRouter(provider)

	state := startTestSignIn(t, router, "")

	resp := test_utils.MakeGetRequest(
		t,
		router,
		"/api/v1/auth/oauth/gitea/callback?code=good-code&state="+url.QueryEscape(state),
		"",
		http.StatusBadRequest,
	)

	assert.Equal(t, "INVALID_OAUTH_STATE", errorCode(t, resp))
	assert.Empty(t, provider.codes)

	makeCallbackRequest(t, router, state, http.StatusOK)
}

func Test_GiteaCallback_WhenCookieBelongsToAnotherFlow_ReturnsBadRequest(t *testing.T) {
	provider := &fakeOAuthProvider{profile: newTestProfile()}
	router, _ := createOAuthTestRouter(provider)

	victimState := startTestSignIn(t, router, "")
	attackerState := startTestSignIn(t, router, "")

	resp := test_utils.MakeRequest(t, router, test_utils.RequestOptions{
		Method:         http.MethodGet,
		URL:            "/api/v1/auth/oauth/gitea/callback?code=good-code&state=" + url.QueryEscape(attackerState),
		Headers:        map[string]string{"Cookie": stateCookieName + "=" + victimState},
		ExpectedStatus: http.StatusBadRequest,
	})

	assert.Equal(t, "INVALID_OAUTH_STATE", errorCode(t, resp))
	assert.Empty(t, provider.codes)
}

func Test_StartGiteaSignIn_SetsHttpOnlyLaxStateCookie(t *testing.T) {
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: newTestProfile()})

	resp := test_utils.MakeGetRequest(t, router, "/api/v1/auth/oauth/gitea/start", "", http.StatusFound)

	location, err := url.Parse(resp.Headers.Get("Location"))
	require.NoError(t, err)

	cookie := findStateCookie(t, resp)
	assert.Equal(t, location.Query().Get("state"), cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, stateCookiePath, cookie.Path)
}

func Test_GiteaCallback_WithProviderErrorParam_ReturnsBadRequestWithMessage(t *testing.T) {
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: newTestProfile()})

	resp := test_utils.MakeGetRequest(
		t,
		router,
		"/api/v1/auth/oauth/gitea/callback?error=access_denied&error_description=user+denied+access&state=x",
		"",
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "user denied access")
	assert.Equal(t, "OAUTH_PROVIDER_ERROR", errorCode(t, resp))
}

func Test_GiteaCallback_WhenProviderIsUnavailable_ReturnsBadGateway(t *testing.T) {
	provider := &fakeOAuthProvider{
		exchangeErr: app_errors.IdentityProviderUnavailable("failed to exchange authorization code", nil),
	}
	router, _ := createOAuthTestRouter(provider)

	state := startTestSignIn(t, router, "")

	makeCallbackRequest(t, router, state, http.StatusBadGateway)
}

func Test_GiteaCallback_WhenEmailIsAlreadyRegistered_ReturnsConflict(t *testing.T) {
	profile := newTestProfile()
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: profile})

	first := startTestSignIn(t, router, "")
	makeCallbackRequest(t, router, first, http.StatusOK)

	other := newTestProfile()
	other.Email = profile.Email
	router, _ = createOAuthTestRouter(&fakeOAuthProvider{profile: other})

	second := startTestSignIn(t, router, "")
	resp := makeCallbackRequest(t, router, second, http.StatusConflict)

	assert.Equal(t, "EMAIL_ALREADY_REGISTERED", errorCode(t, resp))
}

func Test_GiteaCallback_WhenRateLimited_ReturnsTooManyRequests(t *testing.T) {
	router, _ := createOAuthTestRouter(&fakeOAuthProvider{profile: newTestProfile()})
	GetOAuthController().SetCallbackLimiter(rate.NewLimiter(0, 0))
	defer GetOAuthController().SetCallbackLimiter(rate.NewLimiter(rate.Inf, 0))

	test_utils.MakeGetRequest(
		t,
		router,
		"/api/v1/auth/oauth/gitea/callback?code=good-code&state=x",
		"",
		http.StatusTooManyRequests,
	)
}

func Test_GiteaSignIn_WhenProviderIsNotConfigured_ReturnsNotFound(t *testing.T) {
	router, _ := createOAuthTestRouter(nil)

	test_utils.MakeGetRequest(t, router, "/api/v1/auth/oauth/gitea/start", "", http.StatusNotFound)
	test_utils.MakeGetRequest(t, router, "/api/v1/auth/oauth/gitea/callback?code=c&state=s", "", http.StatusNotFound)
}

func createOAuthTestRouter(provider *fakeOAuthProvider) (*gin.Engine, *recordingAuditLogWriter) {
	gin.SetMode(gin.TestMode)

	controller := GetOAuthController()
	controller.provider = nil
	if provider != nil {
		controller.provider = provider
	}
	controller.appBaseURL = testAppBaseURL
	controller.SetCallbackLimiter(rate.NewLimiter(rate.Inf, 0))

	auditWriter := &recordingAuditLogWriter{}
	GetIdentityResolver().SetAuditLogWriter(auditWriter)

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api/v1"))

	return router, auditWriter
}

func startTestSignIn(t *testing.T, router *gin.Engine, redirect string) string {
	t.Helper()

	startURL := "/api/v1/auth/oauth/gitea/start"
	if redirect != "" {
		startURL += "?redirect=" + url.QueryEscape(redirect)
	}

	resp := test_utils.MakeGetRequest(t, router, startURL, "", http.StatusFound)

	location, err := url.Parse(resp.Headers.Get("Location"))
	require.NoError(t, err)

	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return state
}

// makeCallbackRequest calls back with the state cookie a browser that
// started the flow would send.
func makeCallbackRequest(
	t *testing.T,
	router *gin.Engine,
	state string,
	expectedStatus int,
) *test_utils.TestResponse {
	t.Helper()

	return test_utils.MakeRequest(t, router, test_utils.RequestOptions{
		Method:         http.MethodGet,
		URL:            "/api/v1/auth/oauth/gitea/callback?code=good-code&state=" + url.QueryEscape(state),
		Headers:        map[string]string{"Cookie": stateCookieName + "=" + state},
		ExpectedStatus: expectedStatus,
	})
}

func findStateCookie(t *testing.T, resp *test_utils.TestResponse) *http.Cookie {
	t.Helper()

	for _, cookie := range (&http.Response{Header: resp.Headers}).Cookies() {
		if cookie.Name == stateCookieName {
			return cookie
		}
	}

	require.FailNow(t, "state cookie was not set")
	return nil
}

func errorCode(t *testing.T, resp *test_utils.TestResponse) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))

	code, _ := body["code"].(string)
	return code
}
