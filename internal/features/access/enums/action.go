package access_enums

type ResourceKind string

const (
	ResourceKindTeam    ResourceKind = "team"
	ResourceKindProject ResourceKind = "project"
)

type Action string

const (
	ActionView              Action = "view"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionInvite            Action = "invite"
	ActionListInvitations   Action = "list_invitations"
	ActionAddMember         Action = "add_member"
	ActionRemoveMember      Action = "remove_member"
	ActionChangeMemberRole  Action = "change_member_role"
	ActionTransferOwnership Action = "transfer_ownership"
	ActionCreateProject     Action = "create_project"
	ActionViewAuditLogs     Action = "view_audit_logs"
)

// IsSelfTargeting reports whether the action is forbidden when its target
// is the acting account.
func (a Action) IsSelfTargeting() bool {
	switch a {
	case ActionRemoveMember, ActionChangeMemberRole, ActionTransferOwnership:
		return true
	default:
		return false
	}
}
