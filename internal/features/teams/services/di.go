package teams_services

import (
	"zidotask/internal/cache"
	"zidotask/internal/features/access"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/memberships"
	teams_interfaces "zidotask/internal/features/teams/interfaces"
	teams_models "zidotask/internal/features/teams/models"
	teams_repositories "zidotask/internal/features/teams/repositories"
	cache_utils "zidotask/internal/util/cache"

	"golang.org/x/sync/singleflight"
)

var teamRepository = &teams_repositories.TeamRepository{}

var teamService = &TeamService{
	teamRepository,
	memberships.GetMembershipStore(),
	access.GetGate(),
	nil,
	[]teams_interfaces.TeamDeletionListener{},
	cache_utils.NewCacheUtil[teams_models.Team](cache.GetCache(), "zt_team:"),
	singleflight.Group{},
}

var membershipService = &MembershipService{
	memberships.GetMembershipStore(),
	accounts_services.GetAccountService(),
	access.GetGate(),
	nil,
}

func GetTeamService() *TeamService {
	return teamService
}

func GetMembershipService() *MembershipService {
	return membershipService
}
