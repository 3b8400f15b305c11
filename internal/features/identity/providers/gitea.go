package identity_providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zidotask/internal/util/app_errors"

	"golang.org/x/oauth2"
)

const (
	GiteaProviderName = "gitea"

	defaultProviderTimeout = 10 * time.Second
	giteaScopes            = "read:user,user:email"
)

// Profile is what a provider tells about its user. Email and the display
// fields are optional.
type Profile struct {
	ProviderUserID string
	Login          string
	Email          string
	DisplayName    string
	AvatarURL      string
	AccessToken    string
}

type giteaUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type GiteaProvider struct {
	baseURL    string
	config     oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
}

func NewGiteaProvider(baseURL, clientID, clientSecret string) *GiteaProvider {
	baseURL = strings.TrimRight(baseURL, "/")

	return &GiteaProvider{
		baseURL: baseURL,
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/login/oauth/authorize",
				TokenURL:  baseURL + "/login/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{giteaScopes},
		},
		httpClient: &http.Client{Timeout: defaultProviderTimeout},
		timeout:    defaultProviderTimeout,
	}
}

func (p *GiteaProvider) Name() string {
	return GiteaProviderName
}

func (p *GiteaProvider) AuthorizationURL(redirectURI, state string) string {
	return p.configFor(redirectURI).AuthCodeURL(state)
}

// ExchangeCodeForToken trades the authorization code for an access token and
// loads the profile it belongs to.
func (p *GiteaProvider) ExchangeCodeForToken(
	ctx context.Context,
	code string,
	redirectURI string,
) (*oauth2.Token, *Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.configFor(redirectURI).Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
			return nil, nil, app_errors.Validation("authorization code was rejected by the provider")
		}

		return nil, nil, app_errors.IdentityProviderUnavailable("failed to exchange authorization code", err)
	}

	profile, err := p.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, nil, err
	}

	return token, profile, nil
}

func (p *GiteaProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/v1/user", nil)
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to build profile request: %w", err))
	}

	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, app_errors.IdentityProviderUnavailable("failed to fetch user profile", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, app_errors.NotAuthenticated("provider rejected the access token")
	case resp.StatusCode != http.StatusOK:
		return nil, app_errors.IdentityProviderUnavailable(
			"failed to fetch user profile",
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	var user giteaUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, app_errors.IdentityProviderUnavailable("failed to decode user profile", err)
	}

	if user.ID == 0 || user.Login == "" {
		return nil, app_errors.IdentityProviderUnavailable(
			"provider returned an incomplete profile",
			errors.New("missing id or login"),
		)
	}

	return &Profile{
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Login:          user.Login,
		Email:          user.Email,
		DisplayName:    user.FullName,
		AvatarURL:      user.AvatarURL,
		AccessToken:    accessToken,
	}, nil
}

func (p *GiteaProvider) configFor(redirectURI string) *oauth2.Config {
	config := p.config
	config.RedirectURL = redirectURI

	return &config
}
