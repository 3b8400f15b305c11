package identity

import (
	"strings"

	"zidotask/internal/cache"
	"zidotask/internal/config"
	accounts_repositories "zidotask/internal/features/accounts/repositories"
	accounts_services "zidotask/internal/features/accounts/services"
	identity_providers "zidotask/internal/features/identity/providers"
	cache_utils "zidotask/internal/util/cache"
	"zidotask/internal/util/logger"

	"golang.org/x/time/rate"
)

var identityRepository = &ExternalIdentityRepository{}

var identityResolver = &IdentityResolver{
	identityRepository: identityRepository,
	accountRepository:  &accounts_repositories.AccountRepository{},
	logger:             logger.GetLogger(),
}

var oauthStateStore = NewOAuthStateStore(
	cache_utils.NewCacheUtil[oauthState](cache.GetCache(), "zt_oauth_state:"),
)

var oauthController = &OAuthController{
	provider:        newGiteaProvider(),
	resolver:        identityResolver,
	stateStore:      oauthStateStore,
	sessionService:  accounts_services.GetSessionService(),
	callbackLimiter: rate.NewLimiter(rate.Limit(3), 3), // 3 RPS with burst of 3
	appBaseURL:      strings.TrimRight(config.GetEnv().AppBaseURL, "/"),
}

func newGiteaProvider() OAuthProvider {
	env := config.GetEnv()
	if !env.IsGiteaEnabled() {
		return nil
	}

	return identity_providers.NewGiteaProvider(env.GiteaURL, env.GiteaClientID, env.GiteaClientSecret)
}

func GetIdentityResolver() *IdentityResolver {
	return identityResolver
}

func GetOAuthController() *OAuthController {
	return oauthController
}
