package access_enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TeamRole_IsAssignable_ExcludesOwner(t *testing.T) {
	assert.False(t, TeamRoleOwner.IsAssignable())
	assert.True(t, TeamRoleAdmin.IsAssignable())
	assert.True(t, TeamRoleMember.IsAssignable())
	assert.True(t, TeamRoleGuest.IsAssignable())
	assert.False(t, TeamRole("superuser").IsAssignable())
}

func Test_Rank_OrdersRolesFromMostToLeastPrivileged(t *testing.T) {
	assert.Less(t, TeamRoleOwner.Rank(), TeamRoleAdmin.Rank())
	assert.Less(t, TeamRoleAdmin.Rank(), TeamRoleMember.Rank())
	assert.Less(t, TeamRoleMember.Rank(), TeamRoleGuest.Rank())

	assert.Less(t, ProjectRoleManager.Rank(), ProjectRoleAdmin.Rank())
	assert.Less(t, ProjectRoleAdmin.Rank(), ProjectRoleMember.Rank())
	assert.Less(t, ProjectRoleMember.Rank(), ProjectRoleViewer.Rank())

	assert.Equal(t, TeamRoleOwner.Rank(), ProjectRoleManager.Rank())
	assert.Equal(t, TeamRoleGuest.Rank(), ProjectRoleViewer.Rank())
}

func Test_ProjectRole_IsValid_RejectsTeamOnlyRoles(t *testing.T) {
	assert.False(t, ProjectRole("owner").IsValid())
	assert.False(t, ProjectRole("guest").IsValid())
	assert.True(t, ProjectRoleViewer.IsValid())
}
