package invitations

import (
	"zidotask/internal/config"
	"zidotask/internal/features/access"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/memberships"
	teams_services "zidotask/internal/features/teams/services"
	"zidotask/internal/util/logger"
	"zidotask/internal/util/rate_limit"
)

var invitationRepository = &InvitationRepository{}

var invitationService = &InvitationService{
	invitationRepository: invitationRepository,
	membershipStore:      memberships.GetMembershipStore(),
	teamService:          teams_services.GetTeamService(),
	accountService:       accounts_services.GetAccountService(),
	gate:                 access.GetGate(),
	rateLimiter:          rate_limit.NewRateLimiter("invitations"),
	logger:               logger.GetLogger(),
	invitationTTL:        config.GetEnv().InvitationTTL(),
	appBaseURL:           config.GetEnv().AppBaseURL,
}

var invitationController = &InvitationController{
	invitationService: invitationService,
}

func GetInvitationService() *InvitationService {
	return invitationService
}

func GetInvitationController() *InvitationController {
	return invitationController
}
