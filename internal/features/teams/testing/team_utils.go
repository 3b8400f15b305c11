package teams_testing

import (
	"context"
	"fmt"

	access_enums "zidotask/internal/features/access/enums"
	accounts_dto "zidotask/internal/features/accounts/dto"
	"zidotask/internal/features/memberships"
	teams_models "zidotask/internal/features/teams/models"
	teams_repositories "zidotask/internal/features/teams/repositories"

	"github.com/google/uuid"
)

// CreateTestTeam stores a team owned by the given account without going
// through the service, so no audit writer is needed.
func CreateTestTeam(owner *accounts_dto.SignInResponseDTO) *teams_models.Team {
	team := &teams_models.Team{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Test Team %s", uuid.New().String()[:8]),
	}

	teamRepository := &teams_repositories.TeamRepository{}
	if err := teamRepository.CreateTeam(context.Background(), team); err != nil {
		panic(err)
	}

	_, err := memberships.GetMembershipStore().CreateTeamOwner(context.Background(), team.ID, owner.AccountID)
	if err != nil {
		panic(err)
	}

	return team
}

func AddTestTeamMember(
	team *teams_models.Team,
	member *accounts_dto.SignInResponseDTO,
	role access_enums.TeamRole,
) *memberships.TeamMembership {
	membership, err := memberships.GetMembershipStore().AddTeamMember(
		context.Background(),
		team.ID,
		member.AccountID,
		role,
		nil,
	)
	if err != nil {
		panic(err)
	}

	return membership
}

func GetTestTeamRole(team *teams_models.Team, accountID uuid.UUID) *access_enums.TeamRole {
	role, err := memberships.GetMembershipStore().GetTeamRole(context.Background(), team.ID, accountID)
	if err != nil {
		panic(err)
	}

	return role
}
