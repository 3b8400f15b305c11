package teams_controllers

import (
	"net/http"
	"testing"

	access_enums "zidotask/internal/features/access/enums"
	accounts_testing "zidotask/internal/features/accounts/testing"
	"zidotask/internal/features/audit_logs"
	teams_dto "zidotask/internal/features/teams/dto"
	teams_testing "zidotask/internal/features/teams/testing"
	test_utils "zidotask/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateTeam_WithValidData_CreatorBecomesOwner(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()

	var response teams_dto.TeamResponseDTO
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		"/api/v1/teams",
		"Bearer "+owner.Token,
		teams_dto.CreateTeamRequestDTO{Name: "  Platform  ", Description: "Platform team"},
		http.StatusOK,
		&response,
	)

	assert.NotEqual(t, uuid.Nil, response.ID)
	assert.Equal(t, "Platform", response.Name)
	require.NotNil(t, response.Role)
	assert.Equal(t, access_enums.TeamRoleOwner, *response.Role)

	var members teams_dto.GetMembersResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/api/v1/teams/memberships/"+response.ID.String()+"/members",
		"Bearer "+owner.Token,
		http.StatusOK,
		&members,
	)

	require.Len(t, members.Members, 1)
	assert.Equal(t, owner.AccountID, members.Members[0].AccountID)
	assert.Equal(t, access_enums.TeamRoleOwner, members.Members[0].Role)
}

func Test_CreateTeam_WithoutName_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()

	resp := test_utils.MakePostRequest(
		t,
		router,
		"/api/v1/teams",
		"Bearer "+owner.Token,
		teams_dto.CreateTeamRequestDTO{Name: ""},
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "Invalid request format")
}

func Test_CreateTeam_WithoutToken_ReturnsUnauthorized(t *testing.T) {
	router := createTeamTestRouter()

	test_utils.MakePostRequest(
		t,
		router,
		"/api/v1/teams",
		"",
		teams_dto.CreateTeamRequestDTO{Name: "Team"},
		http.StatusUnauthorized,
	)
}

func Test_GetTeams_ReturnsOnlyAccountTeamsWithRoles(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	guest := accounts_testing.CreateTestAccount()

	ownedTeam := teams_testing.CreateTestTeam(owner)
	joinedTeam := teams_testing.CreateTestTeam(accounts_testing.CreateTestAccount())
	teams_testing.AddTestTeamMember(joinedTeam, owner, access_enums.TeamRoleGuest)
	teams_testing.CreateTestTeam(guest)

	var response teams_dto.ListTeamsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/teams", "Bearer "+owner.Token, http.StatusOK, &response)

	require.Len(t, response.Teams, 2)

	roles := map[uuid.UUID]access_enums.TeamRole{}
	for _, team := range response.Teams {
		require.NotNil(t, team.Role)
		roles[team.ID] = *team.Role
	}

	assert.Equal(t, access_enums.TeamRoleOwner, roles[ownedTeam.ID])
	assert.Equal(t, access_enums.TeamRoleGuest, roles[joinedTeam.ID])
}

func Test_GetTeam_WhenNotMember_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	outsider := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)

	resp := test_utils.MakeGetRequest(
		t,
		router,
		"/api/v1/teams/"+team.ID.String(),
		"Bearer "+outsider.Token,
		http.StatusForbidden,
	)

	assert.Contains(t, string(resp.Body), "PERMISSION_DENIED")
}

func Test_GetTeam_WithInvalidID_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()

	resp := test_utils.MakeGetRequest(t, router, "/api/v1/teams/not-a-uuid", "Bearer "+owner.Token, http.StatusBadRequest)

	assert.Contains(t, string(resp.Body), "Invalid team ID")
}

func Test_UpdateTeam_WhenAdmin_TeamUpdated(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	var response teams_dto.TeamResponseDTO
	test_utils.MakePutRequestAndUnmarshal(
		t,
		router,
		"/api/v1/teams/"+team.ID.String(),
		"Bearer "+admin.Token,
		teams_dto.UpdateTeamRequestDTO{Name: "Renamed", Description: "New description"},
		http.StatusOK,
		&response,
	)

	assert.Equal(t, "Renamed", response.Name)

	var fetched teams_dto.TeamResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/api/v1/teams/"+team.ID.String(),
		"Bearer "+owner.Token,
		http.StatusOK,
		&fetched,
	)

	assert.Equal(t, "Renamed", fetched.Name)
	assert.Equal(t, "New description", fetched.Description)
}

func Test_UpdateTeam_WhenMember_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	test_utils.MakePutRequest(
		t,
		router,
		"/api/v1/teams/"+team.ID.String(),
		"Bearer "+member.Token,
		teams_dto.UpdateTeamRequestDTO{Name: "Renamed"},
		http.StatusForbidden,
	)
}

func Test_DeleteTeam_WhenAdmin_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	test_utils.MakeDeleteRequest(t, router, "/api/v1/teams/"+team.ID.String(), "Bearer "+admin.Token, http.StatusForbidden)
}

func Test_DeleteTeam_WhenOwner_TeamAndMembershipsRemoved(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	test_utils.MakeDeleteRequest(t, router, "/api/v1/teams/"+team.ID.String(), "Bearer "+owner.Token, http.StatusOK)

	assert.Nil(t, teams_testing.GetTestTeamRole(team, owner.AccountID))
	assert.Nil(t, teams_testing.GetTestTeamRole(team, member.AccountID))

	test_utils.MakeGetRequest(t, router, "/api/v1/teams/"+team.ID.String(), "Bearer "+owner.Token, http.StatusForbidden)
}

func createTeamTestRouter() *gin.Engine {
	router := accounts_testing.CreateTestRouter(GetTeamController(), GetMembershipController())
	audit_logs.SetupDependencies()

	return router
}
