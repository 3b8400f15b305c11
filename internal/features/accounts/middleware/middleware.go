package accounts_middleware

import (
	"strings"

	accounts_models "zidotask/internal/features/accounts/models"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/util/app_errors"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "account"
	sessionKey   = "session"
)

// AuthMiddleware resolves the bearer session token on every request and puts
// the principal into the request context.
func AuthMiddleware(sessionService *accounts_services.SessionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			app_errors.AbortWithError(ctx, app_errors.NotAuthenticated("authorization token required"))
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		account, session, err := sessionService.GetPrincipalFromToken(ctx.Request.Context(), token)
		if err != nil {
			app_errors.AbortWithError(ctx, err)
			return
		}

		ctx.Set(principalKey, account)
		ctx.Set(sessionKey, session)
		ctx.Next()
	}
}

// GetPrincipalFromContext returns the authenticated account of the request.
func GetPrincipalFromContext(ctx *gin.Context) (*accounts_models.Account, bool) {
	value, exists := ctx.Get(principalKey)
	if !exists {
		return nil, false
	}

	account, ok := value.(*accounts_models.Account)

	return account, ok && account != nil
}

func GetSessionFromContext(ctx *gin.Context) (*accounts_models.Session, bool) {
	value, exists := ctx.Get(sessionKey)
	if !exists {
		return nil, false
	}

	session, ok := value.(*accounts_models.Session)

	return session, ok && session != nil
}
