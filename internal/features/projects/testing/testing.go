package projects_testing

import (
	"context"
	"fmt"

	access_enums "zidotask/internal/features/access/enums"
	accounts_dto "zidotask/internal/features/accounts/dto"
	"zidotask/internal/features/memberships"
	projects_enums "zidotask/internal/features/projects/enums"
	projects_models "zidotask/internal/features/projects/models"
	projects_repositories "zidotask/internal/features/projects/repositories"
	teams_models "zidotask/internal/features/teams/models"

	"github.com/google/uuid"
)

// CreateTestProject stores a project in the team with the given account as
// its manager. The manager does not have to be a team member.
func CreateTestProject(
	team *teams_models.Team,
	manager *accounts_dto.SignInResponseDTO,
) *projects_models.Project {
	project := &projects_models.Project{
		ID:     uuid.New(),
		Name:   fmt.Sprintf("Test Project %s", uuid.New().String()[:8]),
		TeamID: team.ID,
		Status: projects_enums.ProjectStatusPlanning,
		Color:  projects_models.DefaultProjectColor,
	}

	projectRepository := &projects_repositories.ProjectRepository{}
	if err := projectRepository.CreateProject(context.Background(), project); err != nil {
		panic(err)
	}

	_, err := memberships.GetMembershipStore().CreateProjectManager(
		context.Background(),
		project.ID,
		manager.AccountID,
	)
	if err != nil {
		panic(err)
	}

	return project
}

func AddTestProjectMember(
	project *projects_models.Project,
	member *accounts_dto.SignInResponseDTO,
	role access_enums.ProjectRole,
) *memberships.ProjectMembership {
	membership, err := memberships.GetMembershipStore().AddProjectMember(
		context.Background(),
		project.ID,
		member.AccountID,
		role,
	)
	if err != nil {
		panic(err)
	}

	return membership
}

func GetTestProjectRole(project *projects_models.Project, accountID uuid.UUID) *access_enums.ProjectRole {
	role, err := memberships.GetMembershipStore().GetProjectRole(context.Background(), project.ID, accountID)
	if err != nil {
		panic(err)
	}

	return role
}
