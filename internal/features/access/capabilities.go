package access

import (
	access_enums "zidotask/internal/features/access/enums"
)

var teamCapabilities = map[access_enums.Action][]access_enums.TeamRole{
	access_enums.ActionView: {
		access_enums.TeamRoleOwner,
		access_enums.TeamRoleAdmin,
		access_enums.TeamRoleMember,
		access_enums.TeamRoleGuest,
	},
	access_enums.ActionUpdate:            {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionDelete:            {access_enums.TeamRoleOwner},
	access_enums.ActionInvite:            {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionListInvitations:   {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionAddMember:         {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionRemoveMember:      {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionChangeMemberRole:  {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionCreateProject:     {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionViewAuditLogs:     {access_enums.TeamRoleOwner, access_enums.TeamRoleAdmin},
	access_enums.ActionTransferOwnership: {access_enums.TeamRoleOwner},
}

var projectCapabilities = map[access_enums.Action][]access_enums.ProjectRole{
	access_enums.ActionView: {
		access_enums.ProjectRoleManager,
		access_enums.ProjectRoleAdmin,
		access_enums.ProjectRoleMember,
		access_enums.ProjectRoleViewer,
	},
	access_enums.ActionUpdate:           {access_enums.ProjectRoleManager, access_enums.ProjectRoleAdmin},
	access_enums.ActionDelete:           {access_enums.ProjectRoleManager, access_enums.ProjectRoleAdmin},
	access_enums.ActionAddMember:        {access_enums.ProjectRoleManager, access_enums.ProjectRoleAdmin},
	access_enums.ActionRemoveMember:     {access_enums.ProjectRoleManager, access_enums.ProjectRoleAdmin},
	access_enums.ActionChangeMemberRole: {access_enums.ProjectRoleManager, access_enums.ProjectRoleAdmin},
}

// teamToProjectRole applies only to accounts without a project membership of
// their own. Team members and guests get nothing.
var teamToProjectRole = map[access_enums.TeamRole]access_enums.ProjectRole{
	access_enums.TeamRoleOwner: access_enums.ProjectRoleManager,
	access_enums.TeamRoleAdmin: access_enums.ProjectRoleAdmin,
}
