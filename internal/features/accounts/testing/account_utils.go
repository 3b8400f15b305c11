package accounts_testing

import (
	"context"
	"fmt"
	"time"

	accounts_dto "zidotask/internal/features/accounts/dto"
	accounts_enums "zidotask/internal/features/accounts/enums"
	accounts_middleware "zidotask/internal/features/accounts/middleware"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_repositories "zidotask/internal/features/accounts/repositories"
	accounts_services "zidotask/internal/features/accounts/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ControllerInterface interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// CreateTestRouter mounts the controllers behind the auth middleware under
// /api/v1.
func CreateTestRouter(controllers ...ControllerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(accounts_middleware.AuthMiddleware(accounts_services.GetSessionService()))

	for _, controller := range controllers {
		controller.RegisterRoutes(protected)
	}

	return router
}

func CreateTestAccount() *accounts_dto.SignInResponseDTO {
	accountID := uuid.New()
	return CreateTestAccountWithEmail(fmt.Sprintf("account-%s@test.com", accountID.String()[:8]))
}

func CreateTestAccountWithEmail(email string) *accounts_dto.SignInResponseDTO {
	hashedPassword := "$2a$10$test"
	account := &accounts_models.Account{
		ID:                   uuid.New(),
		Email:                email,
		DisplayName:          "Test " + email,
		HashedPassword:       &hashedPassword,
		PasswordCreationTime: time.Now().UTC(),
		Status:               accounts_enums.AccountStatusActive,
		CreatedAt:            time.Now().UTC(),
	}

	accountRepository := &accounts_repositories.AccountRepository{}
	if err := accountRepository.CreateAccount(context.Background(), account); err != nil {
		panic(err)
	}

	response, err := accounts_services.GetSessionService().CreateSession(context.Background(), account)
	if err != nil {
		panic(err)
	}

	return response
}

func GetTestAccount(accountID uuid.UUID) *accounts_models.Account {
	account, err := accounts_services.GetAccountService().GetAccountByID(context.Background(), accountID)
	if err != nil {
		panic(err)
	}

	return account
}
