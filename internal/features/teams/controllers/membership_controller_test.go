package teams_controllers

import (
	"fmt"
	"net/http"
	"testing"

	access_enums "zidotask/internal/features/access/enums"
	accounts_testing "zidotask/internal/features/accounts/testing"
	"zidotask/internal/features/memberships"
	teams_dto "zidotask/internal/features/teams/dto"
	teams_testing "zidotask/internal/features/teams/testing"
	test_utils "zidotask/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ListMembers Tests

func Test_GetTeamMembers_ReturnsMembersOrderedByRoleThenJoinDate(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	firstGuest := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	secondGuest := accounts_testing.CreateTestAccount()

	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, firstGuest, access_enums.TeamRoleGuest)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	teams_testing.AddTestTeamMember(team, secondGuest, access_enums.TeamRoleGuest)

	var response teams_dto.GetMembersResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+firstGuest.Token,
		http.StatusOK,
		&response,
	)

	require.Len(t, response.Members, 5)
	assert.Equal(t, []uuid.UUID{
		owner.AccountID,
		admin.AccountID,
		member.AccountID,
		firstGuest.AccountID,
		secondGuest.AccountID,
	}, memberAccountIDs(response.Members))
	assert.Equal(t, firstGuest.Email, response.Members[3].Email)
}

func Test_GetTeamMembers_WhenNotMember_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam(accounts_testing.CreateTestAccount())
	outsider := accounts_testing.CreateTestAccount()

	test_utils.MakeGetRequest(t, router, membersURL(team.ID), "Bearer "+outsider.Token, http.StatusForbidden)
}

// AddMember Tests

func Test_AddTeamMember_WhenOwnerAddsAdmin_MemberAdded(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	newAdmin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)

	var response memberships.TeamMembership
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+owner.Token,
		teams_dto.AddMemberRequestDTO{Email: newAdmin.Email, Role: access_enums.TeamRoleAdmin},
		http.StatusOK,
		&response,
	)

	assert.Equal(t, newAdmin.AccountID, response.AccountID)
	assert.Equal(t, access_enums.TeamRoleAdmin, response.Role)
	require.NotNil(t, response.InvitedBy)
	assert.Equal(t, owner.AccountID, *response.InvitedBy)
}

func Test_AddTeamMember_WhenAlreadyMember_ReturnsConflict(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	resp := test_utils.MakePostRequest(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+owner.Token,
		teams_dto.AddMemberRequestDTO{Email: member.Email, Role: access_enums.TeamRoleGuest},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "ALREADY_MEMBER")
	assert.Equal(t, access_enums.TeamRoleMember, *teams_testing.GetTestTeamRole(team, member.AccountID))
}

func Test_AddTeamMember_WhenAccountDoesNotExist_ReturnsNotFound(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)

	resp := test_utils.MakePostRequest(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+owner.Token,
		teams_dto.AddMemberRequestDTO{Email: "nobody-" + uuid.NewString()[:8] + "@test.com", Role: "member"},
		http.StatusNotFound,
	)

	assert.Contains(t, string(resp.Body), "send an invitation instead")
}

func Test_AddTeamMember_WhenRoleIsOwner_ReturnsOwnerProtected(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	other := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)

	resp := test_utils.MakePostRequest(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+owner.Token,
		teams_dto.AddMemberRequestDTO{Email: other.Email, Role: access_enums.TeamRoleOwner},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.Nil(t, teams_testing.GetTestTeamRole(team, other.AccountID))
}

func Test_AddTeamMember_WhenAdminAddsAdmin_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	other := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	resp := test_utils.MakePostRequest(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+admin.Token,
		teams_dto.AddMemberRequestDTO{Email: other.Email, Role: access_enums.TeamRoleAdmin},
		http.StatusForbidden,
	)

	assert.Contains(t, string(resp.Body), "only team owner can add/manage admins")
}

func Test_AddTeamMember_WhenMember_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	other := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	test_utils.MakePostRequest(
		t,
		router,
		membersURL(team.ID),
		"Bearer "+member.Token,
		teams_dto.AddMemberRequestDTO{Email: other.Email, Role: access_enums.TeamRoleGuest},
		http.StatusForbidden,
	)
}

// ChangeMemberRole Tests

func Test_ChangeTeamMemberRole_WhenOwnerPromotesMember_RoleChanged(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	initial := teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	var response memberships.TeamMembership
	test_utils.MakePutRequestAndUnmarshal(
		t,
		router,
		memberURL(team.ID, member.AccountID)+"/role",
		"Bearer "+owner.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: access_enums.TeamRoleAdmin},
		http.StatusOK,
		&response,
	)

	assert.Equal(t, access_enums.TeamRoleAdmin, response.Role)
	assert.Equal(t, initial.Version+1, response.Version)
	assert.Equal(t, access_enums.TeamRoleAdmin, *teams_testing.GetTestTeamRole(team, member.AccountID))
}

func Test_ChangeTeamMemberRole_WhenTargetIsSelf_ReturnsSelfModification(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	resp := test_utils.MakePutRequest(
		t,
		router,
		memberURL(team.ID, admin.AccountID)+"/role",
		"Bearer "+admin.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: access_enums.TeamRoleMember},
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "SELF_MODIFICATION")
	assert.Equal(t, access_enums.TeamRoleAdmin, *teams_testing.GetTestTeamRole(team, admin.AccountID))
}

func Test_ChangeTeamMemberRole_WhenTargetIsOwner_ReturnsOwnerProtected(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	resp := test_utils.MakePutRequest(
		t,
		router,
		memberURL(team.ID, owner.AccountID)+"/role",
		"Bearer "+admin.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: access_enums.TeamRoleMember},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.Equal(t, access_enums.TeamRoleOwner, *teams_testing.GetTestTeamRole(team, owner.AccountID))
}

func Test_ChangeTeamMemberRole_WhenRoleIsInvalid_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	resp := test_utils.MakePutRequest(
		t,
		router,
		memberURL(team.ID, member.AccountID)+"/role",
		"Bearer "+owner.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: "superuser"},
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "invalid team role")
}

// RemoveMember Tests

func Test_RemoveTeamMember_WhenAdminRemovesMember_MemberRemoved(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	test_utils.MakeDeleteRequest(t, router, memberURL(team.ID, member.AccountID), "Bearer "+admin.Token, http.StatusOK)

	assert.Nil(t, teams_testing.GetTestTeamRole(team, member.AccountID))
	test_utils.MakeGetRequest(t, router, membersURL(team.ID), "Bearer "+member.Token, http.StatusForbidden)
}

func Test_RemoveTeamMember_WhenAdminRemovesOwner_ReturnsOwnerProtected(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	resp := test_utils.MakeDeleteRequest(
		t,
		router,
		memberURL(team.ID, owner.AccountID),
		"Bearer "+admin.Token,
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.Equal(t, access_enums.TeamRoleOwner, *teams_testing.GetTestTeamRole(team, owner.AccountID))
}

func Test_RemoveTeamMember_WhenAdminRemovesAdmin_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	otherAdmin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	teams_testing.AddTestTeamMember(team, otherAdmin, access_enums.TeamRoleAdmin)

	test_utils.MakeDeleteRequest(
		t,
		router,
		memberURL(team.ID, otherAdmin.AccountID),
		"Bearer "+admin.Token,
		http.StatusForbidden,
	)

	assert.NotNil(t, teams_testing.GetTestTeamRole(team, otherAdmin.AccountID))
}

func Test_RemoveTeamMember_WhenGuestRemovesMember_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	guest := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, guest, access_enums.TeamRoleGuest)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	test_utils.MakeDeleteRequest(t, router, memberURL(team.ID, member.AccountID), "Bearer "+guest.Token, http.StatusForbidden)

	assert.NotNil(t, teams_testing.GetTestTeamRole(team, member.AccountID))
}

func Test_RemoveTeamMember_WhenOwnerRemovesSelf_ReturnsSelfModification(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)

	resp := test_utils.MakeDeleteRequest(
		t,
		router,
		memberURL(team.ID, owner.AccountID),
		"Bearer "+owner.Token,
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "cannot remove yourself")
}

// TransferOwnership Tests

func Test_TransferTeamOwnership_WhenOwner_RolesSwapped(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)

	test_utils.MakePostRequest(
		t,
		router,
		fmt.Sprintf("/api/v1/teams/memberships/%s/transfer-ownership", team.ID),
		"Bearer "+owner.Token,
		teams_dto.TransferOwnershipRequestDTO{NewOwnerEmail: member.Email},
		http.StatusOK,
	)

	assert.Equal(t, access_enums.TeamRoleOwner, *teams_testing.GetTestTeamRole(team, member.AccountID))
	assert.Equal(t, access_enums.TeamRoleAdmin, *teams_testing.GetTestTeamRole(team, owner.AccountID))
}

func Test_TransferTeamOwnership_WhenAdmin_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)

	test_utils.MakePostRequest(
		t,
		router,
		fmt.Sprintf("/api/v1/teams/memberships/%s/transfer-ownership", team.ID),
		"Bearer "+admin.Token,
		teams_dto.TransferOwnershipRequestDTO{NewOwnerEmail: admin.Email},
		http.StatusForbidden,
	)

	assert.Equal(t, access_enums.TeamRoleOwner, *teams_testing.GetTestTeamRole(team, owner.AccountID))
}

func Test_TransferTeamOwnership_WhenNewOwnerNotMember_ReturnsNotFound(t *testing.T) {
	router := createTeamTestRouter()
	owner := accounts_testing.CreateTestAccount()
	outsider := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)

	resp := test_utils.MakePostRequest(
		t,
		router,
		fmt.Sprintf("/api/v1/teams/memberships/%s/transfer-ownership", team.ID),
		"Bearer "+owner.Token,
		teams_dto.TransferOwnershipRequestDTO{NewOwnerEmail: outsider.Email},
		http.StatusNotFound,
	)

	assert.Contains(t, string(resp.Body), "new owner must be a team member")
	assert.Equal(t, access_enums.TeamRoleOwner, *teams_testing.GetTestTeamRole(team, owner.AccountID))
}

func membersURL(teamID uuid.UUID) string {
	return fmt.Sprintf("/api/v1/teams/memberships/%s/members", teamID)
}

func memberURL(teamID, accountID uuid.UUID) string {
	return fmt.Sprintf("/api/v1/teams/memberships/%s/members/%s", teamID, accountID)
}

func memberAccountIDs(members []*memberships.TeamMember) []uuid.UUID {
	accountIDs := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		accountIDs = append(accountIDs, member.AccountID)
	}

	return accountIDs
}
