package projects_services

import (
	"sync"

	"zidotask/internal/cache"
	"zidotask/internal/features/access"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/memberships"
	projects_models "zidotask/internal/features/projects/models"
	projects_repositories "zidotask/internal/features/projects/repositories"
	teams_services "zidotask/internal/features/teams/services"
	cache_utils "zidotask/internal/util/cache"

	"golang.org/x/sync/singleflight"
)

var projectRepository = &projects_repositories.ProjectRepository{}

var projectService = &ProjectService{
	projectRepository,
	memberships.GetMembershipStore(),
	teams_services.GetTeamService(),
	access.GetGate(),
	nil,
	cache_utils.NewCacheUtil[projects_models.Project](cache.GetCache(), "zt_project:"),
	singleflight.Group{},
}

var membershipService = &MembershipService{
	memberships.GetMembershipStore(),
	projectService,
	accounts_services.GetAccountService(),
	access.GetGate(),
	nil,
}

var setupOnce sync.Once

func SetupDependencies() {
	setupOnce.Do(func() {
		teams_services.GetTeamService().AddTeamDeletionListener(projectService)
	})
}

func GetProjectService() *ProjectService {
	return projectService
}

func GetMembershipService() *MembershipService {
	return membershipService
}
