package projects_controllers

import (
	"context"
	"net/http"
	"testing"

	access_enums "zidotask/internal/features/access/enums"
	accounts_testing "zidotask/internal/features/accounts/testing"
	"zidotask/internal/features/audit_logs"
	"zidotask/internal/features/memberships"
	projects_dto "zidotask/internal/features/projects/dto"
	projects_testing "zidotask/internal/features/projects/testing"
	teams_testing "zidotask/internal/features/teams/testing"
	test_utils "zidotask/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ListMembers Tests

func Test_GetProjectMembers_ReturnsMembersOrderedByRole(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	viewer := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, viewer, access_enums.TeamRoleMember)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, viewer, access_enums.ProjectRoleViewer)
	projects_testing.AddTestProjectMember(project, admin, access_enums.ProjectRoleAdmin)

	var response projects_dto.GetMembersResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+viewer.Token,
		http.StatusOK,
		&response,
	)

	require.Len(t, response.Members, 3)
	assert.Equal(t, []uuid.UUID{owner.AccountID, admin.AccountID, viewer.AccountID}, projectMemberAccountIDs(response.Members))
	assert.Equal(t, access_enums.ProjectRoleManager, response.Members[0].Role)
}

// AddMember Tests

func Test_AddProjectMember_WhenTeamMember_MemberAdded(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)

	var response memberships.ProjectMembership
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+owner.Token,
		projects_dto.AddMemberRequestDTO{Email: member.Email, Role: access_enums.ProjectRoleMember},
		http.StatusOK,
		&response,
	)

	assert.Equal(t, member.AccountID, response.AccountID)
	assert.Equal(t, access_enums.ProjectRoleMember, response.Role)
}

func Test_ProjectMembershipChanges_AreRecordedInTeamAuditLog(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)

	test_utils.MakePostRequest(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+owner.Token,
		projects_dto.AddMemberRequestDTO{Email: member.Email, Role: access_enums.ProjectRoleMember},
		http.StatusOK,
	)
	test_utils.MakePutRequest(
		t,
		router,
		projectMemberURL(project.ID, member.AccountID)+"/role",
		"Bearer "+owner.Token,
		projects_dto.ChangeMemberRoleRequestDTO{Role: access_enums.ProjectRoleViewer},
		http.StatusOK,
	)
	test_utils.MakeDeleteRequest(
		t,
		router,
		projectMemberURL(project.ID, member.AccountID),
		"Bearer "+owner.Token,
		http.StatusOK,
	)

	response, err := audit_logs.GetAuditLogService().GetTeamAuditLogs(
		context.Background(),
		team.ID,
		accounts_testing.GetTestAccount(owner.AccountID),
		&audit_logs.GetAuditLogsRequest{},
	)
	require.NoError(t, err)

	projectEntries := 0
	for _, auditLog := range response.AuditLogs {
		if auditLog.ProjectID == nil || *auditLog.ProjectID != project.ID {
			continue
		}

		projectEntries++
		require.NotNil(t, auditLog.TeamID)
		assert.Equal(t, team.ID, *auditLog.TeamID)
		assert.Equal(t, owner.AccountID, *auditLog.AccountID)
	}
	assert.Equal(t, 3, projectEntries)
}

func Test_AddProjectMember_WhenNotTeamMember_ReturnsNotATeamMember(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	outsider := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	project := projects_testing.CreateTestProject(team, owner)

	resp := test_utils.MakePostRequest(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+owner.Token,
		projects_dto.AddMemberRequestDTO{Email: outsider.Email, Role: access_enums.ProjectRoleMember},
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "NOT_A_TEAM_MEMBER")
	assert.Nil(t, projects_testing.GetTestProjectRole(project, outsider.AccountID))
}

func Test_AddProjectMember_WhenAlreadyMember_ReturnsConflict(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, member, access_enums.ProjectRoleViewer)

	resp := test_utils.MakePostRequest(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+owner.Token,
		projects_dto.AddMemberRequestDTO{Email: member.Email, Role: access_enums.ProjectRoleMember},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "ALREADY_MEMBER")
}

func Test_AddProjectMember_WhenProjectAdminGrantsManager_ReturnsForbidden(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleMember)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, admin, access_enums.ProjectRoleAdmin)

	test_utils.MakePostRequest(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+admin.Token,
		projects_dto.AddMemberRequestDTO{Email: member.Email, Role: access_enums.ProjectRoleManager},
		http.StatusForbidden,
	)

	assert.Nil(t, projects_testing.GetTestProjectRole(project, member.AccountID))
}

func Test_AddProjectMember_WhenViewer_ReturnsForbidden(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	viewer := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, viewer, access_enums.TeamRoleMember)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, viewer, access_enums.ProjectRoleViewer)

	test_utils.MakePostRequest(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+viewer.Token,
		projects_dto.AddMemberRequestDTO{Email: member.Email, Role: access_enums.ProjectRoleViewer},
		http.StatusForbidden,
	)
}

func Test_AddProjectMember_WhenTeamOwnerAddedBelowManager_ReturnsOwnerProtected(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	manager := accounts_testing.CreateTestAccount()
	projectAdmin := accounts_testing.CreateTestAccount()
	viewer := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, manager, access_enums.TeamRoleAdmin)
	teams_testing.AddTestTeamMember(team, projectAdmin, access_enums.TeamRoleMember)
	teams_testing.AddTestTeamMember(team, viewer, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, manager)
	projects_testing.AddTestProjectMember(project, projectAdmin, access_enums.ProjectRoleAdmin)
	projects_testing.AddTestProjectMember(project, viewer, access_enums.ProjectRoleViewer)

	resp := test_utils.MakePostRequest(
		t,
		router,
		projectMembersURL(project.ID),
		"Bearer "+projectAdmin.Token,
		projects_dto.AddMemberRequestDTO{Email: owner.Email, Role: access_enums.ProjectRoleViewer},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.Nil(t, projects_testing.GetTestProjectRole(project, owner.AccountID))

	test_utils.MakeDeleteRequest(
		t,
		router,
		projectMemberURL(project.ID, viewer.AccountID),
		"Bearer "+owner.Token,
		http.StatusOK,
	)
}

// ChangeMemberRole Tests

func Test_ChangeProjectMemberRole_WhenManagerPromotesMember_RoleChanged(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, member, access_enums.ProjectRoleViewer)

	var response memberships.ProjectMembership
	test_utils.MakePutRequestAndUnmarshal(
		t,
		router,
		projectMemberURL(project.ID, member.AccountID)+"/role",
		"Bearer "+owner.Token,
		projects_dto.ChangeMemberRoleRequestDTO{Role: access_enums.ProjectRoleManager},
		http.StatusOK,
		&response,
	)

	assert.Equal(t, access_enums.ProjectRoleManager, response.Role)
	assert.Equal(t, int64(2), response.Version)
}

func Test_ChangeProjectMemberRole_WhenDemotingLastManager_ReturnsOwnerProtected(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	project := projects_testing.CreateTestProject(team, admin)

	resp := test_utils.MakePutRequest(
		t,
		router,
		projectMemberURL(project.ID, admin.AccountID)+"/role",
		"Bearer "+owner.Token,
		projects_dto.ChangeMemberRoleRequestDTO{Role: access_enums.ProjectRoleMember},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")

	role := projects_testing.GetTestProjectRole(project, admin.AccountID)
	require.NotNil(t, role)
	assert.Equal(t, access_enums.ProjectRoleManager, *role)
}

func Test_ChangeProjectMemberRole_WhenTargetIsSelf_ReturnsSelfModification(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	project := projects_testing.CreateTestProject(team, owner)

	resp := test_utils.MakePutRequest(
		t,
		router,
		projectMemberURL(project.ID, owner.AccountID)+"/role",
		"Bearer "+owner.Token,
		projects_dto.ChangeMemberRoleRequestDTO{Role: access_enums.ProjectRoleViewer},
		http.StatusBadRequest,
	)

	assert.Contains(t, string(resp.Body), "SELF_MODIFICATION")
}

func Test_ChangeProjectMemberRole_WhenTeamOwnerDemotedBelowManager_ReturnsOwnerProtected(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	manager := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, manager, access_enums.TeamRoleAdmin)
	project := projects_testing.CreateTestProject(team, manager)
	projects_testing.AddTestProjectMember(project, owner, access_enums.ProjectRoleManager)

	resp := test_utils.MakePutRequest(
		t,
		router,
		projectMemberURL(project.ID, owner.AccountID)+"/role",
		"Bearer "+manager.Token,
		projects_dto.ChangeMemberRoleRequestDTO{Role: access_enums.ProjectRoleViewer},
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.Equal(t, access_enums.ProjectRoleManager, *projects_testing.GetTestProjectRole(project, owner.AccountID))
}

// RemoveMember Tests

func Test_RemoveProjectMember_WhenProjectAdminRemovesViewer_MemberRemoved(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	viewer := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleMember)
	teams_testing.AddTestTeamMember(team, viewer, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, admin, access_enums.ProjectRoleAdmin)
	projects_testing.AddTestProjectMember(project, viewer, access_enums.ProjectRoleViewer)

	test_utils.MakeDeleteRequest(
		t,
		router,
		projectMemberURL(project.ID, viewer.AccountID),
		"Bearer "+admin.Token,
		http.StatusOK,
	)

	assert.Nil(t, projects_testing.GetTestProjectRole(project, viewer.AccountID))
}

func Test_RemoveProjectMember_WhenProjectAdminRemovesManager_ReturnsForbidden(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, admin, access_enums.ProjectRoleAdmin)

	test_utils.MakeDeleteRequest(
		t,
		router,
		projectMemberURL(project.ID, owner.AccountID),
		"Bearer "+admin.Token,
		http.StatusForbidden,
	)

	assert.NotNil(t, projects_testing.GetTestProjectRole(project, owner.AccountID))
}

func Test_RemoveProjectMember_WhenRemovingLastManager_ReturnsOwnerProtected(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	project := projects_testing.CreateTestProject(team, admin)

	resp := test_utils.MakeDeleteRequest(
		t,
		router,
		projectMemberURL(project.ID, admin.AccountID),
		"Bearer "+owner.Token,
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.NotNil(t, projects_testing.GetTestProjectRole(project, admin.AccountID))
}

func Test_RemoveProjectMember_WhenAnotherManagerRemains_ManagerRemoved(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	project := projects_testing.CreateTestProject(team, admin)
	projects_testing.AddTestProjectMember(project, owner, access_enums.ProjectRoleManager)

	test_utils.MakeDeleteRequest(
		t,
		router,
		projectMemberURL(project.ID, admin.AccountID),
		"Bearer "+owner.Token,
		http.StatusOK,
	)

	assert.Nil(t, projects_testing.GetTestProjectRole(project, admin.AccountID))
}

// Team membership cascade Tests

func Test_RemoveTeamMember_WhenMemberHasProjectMemberships_ProjectMembershipsRemoved(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	member := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, member, access_enums.TeamRoleMember)
	project := projects_testing.CreateTestProject(team, owner)
	projects_testing.AddTestProjectMember(project, member, access_enums.ProjectRoleMember)

	test_utils.MakeDeleteRequest(
		t,
		router,
		"/api/v1/teams/memberships/"+team.ID.String()+"/members/"+member.AccountID.String(),
		"Bearer "+owner.Token,
		http.StatusOK,
	)

	assert.Nil(t, teams_testing.GetTestTeamRole(team, member.AccountID))
	assert.Nil(t, projects_testing.GetTestProjectRole(project, member.AccountID))
}

func Test_RemoveTeamMember_WhenMemberIsLastProjectManager_ReturnsOwnerProtected(t *testing.T) {
	router := createProjectTestRouter()
	owner := accounts_testing.CreateTestAccount()
	admin := accounts_testing.CreateTestAccount()
	team := teams_testing.CreateTestTeam(owner)
	teams_testing.AddTestTeamMember(team, admin, access_enums.TeamRoleAdmin)
	project := projects_testing.CreateTestProject(team, admin)

	resp := test_utils.MakeDeleteRequest(
		t,
		router,
		"/api/v1/teams/memberships/"+team.ID.String()+"/members/"+admin.AccountID.String(),
		"Bearer "+owner.Token,
		http.StatusConflict,
	)

	assert.Contains(t, string(resp.Body), "OWNER_PROTECTED")
	assert.NotNil(t, teams_testing.GetTestTeamRole(team, admin.AccountID))
	assert.NotNil(t, projects_testing.GetTestProjectRole(project, admin.AccountID))
}

func projectMembersURL(projectID uuid.UUID) string {
	return "/api/v1/projects/memberships/" + projectID.String() + "/members"
}

func projectMemberURL(projectID, accountID uuid.UUID) string {
	return projectMembersURL(projectID) + "/" + accountID.String()
}

func projectMemberAccountIDs(members []*memberships.ProjectMember) []uuid.UUID {
	accountIDs := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		accountIDs = append(accountIDs, member.AccountID)
	}

	return accountIDs
}
