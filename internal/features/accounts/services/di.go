package accounts_services

import (
	"zidotask/internal/cache"
	"zidotask/internal/config"
	accounts_repositories "zidotask/internal/features/accounts/repositories"
	cache_utils "zidotask/internal/util/cache"
)

var secretKeyRepository = &accounts_repositories.SecretKeyRepository{}
var accountRepository = &accounts_repositories.AccountRepository{}
var sessionRepository = &accounts_repositories.SessionRepository{}

var sessionService = &SessionService{
	accountRepository:   accountRepository,
	sessionRepository:   sessionRepository,
	secretKeyRepository: secretKeyRepository,
	principalCache: cache_utils.NewCacheUtil[cachedPrincipal](cache.GetCache(), "zt_session:").
		WithExpiry(principalCacheExpiry),
	sessionTTL: config.GetEnv().SessionTTL(),
}

var accountService = &AccountService{
	accountRepository: accountRepository,
	sessionService:    sessionService,
}

func GetSessionService() *SessionService {
	return sessionService
}

func GetAccountService() *AccountService {
	return accountService
}
