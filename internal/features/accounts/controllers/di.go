package accounts_controllers

import (
	accounts_services "zidotask/internal/features/accounts/services"

	"golang.org/x/time/rate"
)

var accountController = &AccountController{
	accountService: accounts_services.GetAccountService(),
	sessionService: accounts_services.GetSessionService(),
	signinLimiter:  rate.NewLimiter(rate.Limit(3), 3), // 3 RPS with burst of 3
}

func GetAccountController() *AccountController {
	return accountController
}
