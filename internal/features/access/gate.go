package access

import (
	"context"
	"fmt"
	"slices"

	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
)

type MembershipReader interface {
	GetTeamRole(ctx context.Context, teamID, accountID uuid.UUID) (*access_enums.TeamRole, error)
	GetProjectRole(ctx context.Context, projectID, accountID uuid.UUID) (*access_enums.ProjectRole, error)
}

// Gate decides whether a principal may perform an action on a resource. It
// keeps no state besides the reader and is safe for concurrent use.
type Gate struct {
	reader MembershipReader
}

func NewGate(reader MembershipReader) *Gate {
	return &Gate{reader: reader}
}

// Authorize returns nil when the action is allowed.
func (g *Gate) Authorize(
	ctx context.Context,
	principal *accounts_models.Account,
	action access_enums.Action,
	resource Resource,
) error {
	if principal == nil {
		return app_errors.NotAuthenticated("not authenticated")
	}

	if action.IsSelfTargeting() && resource.TargetAccountID != nil && *resource.TargetAccountID == principal.ID {
		return app_errors.SelfModification(selfModificationMessage(action))
	}

	switch resource.Kind {
	case access_enums.ResourceKindTeam:
		return g.authorizeTeam(ctx, principal.ID, action, resource)
	case access_enums.ResourceKindProject:
		return g.authorizeProject(ctx, principal.ID, action, resource)
	default:
		return app_errors.PermissionDenied(fmt.Sprintf("unknown resource kind: %s", resource.Kind))
	}
}

func (g *Gate) IsAllowed(
	ctx context.Context,
	principal *accounts_models.Account,
	action access_enums.Action,
	resource Resource,
) bool {
	return g.Authorize(ctx, principal, action, resource) == nil
}

// EffectiveProjectRole returns the account's own project role, or the role
// its team role maps to when it has none. Nil means no access.
func (g *Gate) EffectiveProjectRole(
	ctx context.Context,
	accountID uuid.UUID,
	resource Resource,
) (*access_enums.ProjectRole, error) {
	projectRole, err := g.reader.GetProjectRole(ctx, resource.ID, accountID)
	if err != nil {
		return nil, app_errors.OrInternal(err, "failed to get project role")
	}

	if projectRole != nil {
		return projectRole, nil
	}

	teamRole, err := g.reader.GetTeamRole(ctx, resource.TeamID, accountID)
	if err != nil {
		return nil, app_errors.OrInternal(err, "failed to get team role")
	}

	if teamRole == nil {
		return nil, nil
	}

	mappedRole, ok := teamToProjectRole[*teamRole]
	if !ok {
		return nil, nil
	}

	return &mappedRole, nil
}

func (g *Gate) authorizeTeam(
	ctx context.Context,
	accountID uuid.UUID,
	action access_enums.Action,
	resource Resource,
) error {
	allowedRoles, ok := teamCapabilities[action]
	if !ok {
		return app_errors.PermissionDenied(fmt.Sprintf("unknown team action: %s", action))
	}

	role, err := g.reader.GetTeamRole(ctx, resource.ID, accountID)
	if err != nil {
		return app_errors.OrInternal(err, "failed to get team role")
	}

	if role == nil {
		return app_errors.PermissionDenied("not a member of this team")
	}

	if !slices.Contains(allowedRoles, *role) {
		return app_errors.PermissionDenied(
			fmt.Sprintf("insufficient permissions to %s, team role is %s", describeAction(action), *role),
		)
	}

	return nil
}

func (g *Gate) authorizeProject(
	ctx context.Context,
	accountID uuid.UUID,
	action access_enums.Action,
	resource Resource,
) error {
	allowedRoles, ok := projectCapabilities[action]
	if !ok {
		return app_errors.PermissionDenied(fmt.Sprintf("unknown project action: %s", action))
	}

	role, err := g.EffectiveProjectRole(ctx, accountID, resource)
	if err != nil {
		return err
	}

	if role == nil {
		return app_errors.PermissionDenied("no access to this project")
	}

	if !slices.Contains(allowedRoles, *role) {
		return app_errors.PermissionDenied(
			fmt.Sprintf("insufficient permissions to %s, project role is %s", describeAction(action), *role),
		)
	}

	return nil
}

func describeAction(action access_enums.Action) string {
	switch action {
	case access_enums.ActionView:
		return "view"
	case access_enums.ActionUpdate:
		return "update"
	case access_enums.ActionDelete:
		return "delete"
	case access_enums.ActionInvite:
		return "invite members"
	case access_enums.ActionListInvitations:
		return "list invitations"
	case access_enums.ActionAddMember:
		return "add members"
	case access_enums.ActionRemoveMember:
		return "remove members"
	case access_enums.ActionChangeMemberRole:
		return "change member roles"
	case access_enums.ActionTransferOwnership:
		return "transfer ownership"
	case access_enums.ActionCreateProject:
		return "create projects"
	case access_enums.ActionViewAuditLogs:
		return "view audit logs"
	default:
		return string(action)
	}
}

func selfModificationMessage(action access_enums.Action) string {
	switch action {
	case access_enums.ActionRemoveMember:
		return "cannot remove yourself"
	case access_enums.ActionChangeMemberRole:
		return "cannot change your own role"
	default:
		return "cannot transfer ownership to yourself"
	}
}
