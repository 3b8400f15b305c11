package projects_services

import (
	"context"
	"fmt"

	"zidotask/internal/features/access"
	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/memberships"
	projects_dto "zidotask/internal/features/projects/dto"
	projects_interfaces "zidotask/internal/features/projects/interfaces"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
)

type MembershipService struct {
	membershipStore *memberships.MembershipStore
	projectService  *ProjectService
	accountService  *accounts_services.AccountService
	gate            *access.Gate
	auditLogWriter  projects_interfaces.AuditLogWriter
}

func (s *MembershipService) SetAuditLogWriter(writer projects_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *MembershipService) GetMembers(
	ctx context.Context,
	projectID uuid.UUID,
	account *accounts_models.Account,
) (*projects_dto.GetMembersResponseDTO, error) {
	resource, err := s.projectService.ResolveProjectResource(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, account, access_enums.ActionView, resource); err != nil {
		return nil, err
	}

	members, err := s.membershipStore.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &projects_dto.GetMembersResponseDTO{Members: members}, nil
}

func (s *MembershipService) AddMember(
	ctx context.Context,
	projectID uuid.UUID,
	request *projects_dto.AddMemberRequestDTO,
	addedBy *accounts_models.Account,
) (*memberships.ProjectMembership, error) {
	resource, err := s.projectService.ResolveProjectResource(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, addedBy, access_enums.ActionAddMember, resource); err != nil {
		return nil, err
	}

	if err := s.validateCanManageMembership(ctx, resource, addedBy, nil, &request.Role); err != nil {
		return nil, err
	}

	targetAccount, err := s.accountService.GetAccountByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}

	if targetAccount == nil {
		return nil, app_errors.NotFound("account with this email does not exist")
	}

	if err := s.validateTeamOwnerKeepsManagement(ctx, resource, targetAccount.ID, request.Role); err != nil {
		return nil, err
	}

	membership, err := s.membershipStore.AddProjectMember(ctx, projectID, targetAccount.ID, request.Role)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Account added to project: %s as %s", targetAccount.Email, request.Role),
		&addedBy.ID,
		&resource.TeamID,
		&projectID,
	)

	return membership, nil
}

func (s *MembershipService) ChangeMemberRole(
	ctx context.Context,
	projectID uuid.UUID,
	memberAccountID uuid.UUID,
	request *projects_dto.ChangeMemberRoleRequestDTO,
	changedBy *accounts_models.Account,
) (*memberships.ProjectMembership, error) {
	resource, err := s.projectService.ResolveProjectResource(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resource = resource.WithTarget(memberAccountID)
	if err := s.gate.Authorize(ctx, changedBy, access_enums.ActionChangeMemberRole, resource); err != nil {
		return nil, err
	}

	existingMembership, err := s.membershipStore.GetProjectMembership(ctx, projectID, memberAccountID)
	if err != nil {
		return nil, err
	}

	err = s.validateCanManageMembership(ctx, resource, changedBy, &existingMembership.Role, &request.Role)
	if err != nil {
		return nil, err
	}

	if err := s.validateTeamOwnerKeepsManagement(ctx, resource, memberAccountID, request.Role); err != nil {
		return nil, err
	}

	membership, err := s.membershipStore.UpdateProjectMemberRole(ctx, projectID, memberAccountID, request.Role)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf(
			"Project member role changed: %s from %s to %s",
			memberAccountID,
			existingMembership.Role,
			request.Role,
		),
		&changedBy.ID,
		&resource.TeamID,
		&projectID,
	)

	return membership, nil
}

func (s *MembershipService) RemoveMember(
	ctx context.Context,
	projectID uuid.UUID,
	memberAccountID uuid.UUID,
	removedBy *accounts_models.Account,
) error {
	resource, err := s.projectService.ResolveProjectResource(ctx, projectID)
	if err != nil {
		return err
	}

	resource = resource.WithTarget(memberAccountID)
	if err := s.gate.Authorize(ctx, removedBy, access_enums.ActionRemoveMember, resource); err != nil {
		return err
	}

	existingMembership, err := s.membershipStore.GetProjectMembership(ctx, projectID, memberAccountID)
	if err != nil {
		return err
	}

	if err := s.validateCanManageMembership(ctx, resource, removedBy, &existingMembership.Role, nil); err != nil {
		return err
	}

	if err := s.membershipStore.RemoveProjectMember(ctx, projectID, memberAccountID); err != nil {
		return err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Member removed from project: %s", memberAccountID),
		&removedBy.ID,
		&resource.TeamID,
		&projectID,
	)

	return nil
}

// validateCanManageMembership lets managers manage anyone. Admins manage
// members and viewers only.
func (s *MembershipService) validateCanManageMembership(
	ctx context.Context,
	resource access.Resource,
	actor *accounts_models.Account,
	targetRole *access_enums.ProjectRole,
	changesRoleTo *access_enums.ProjectRole,
) error {
	actorRole, err := s.gate.EffectiveProjectRole(ctx, actor.ID, resource)
	if err != nil {
		return err
	}

	if actorRole == nil {
		return app_errors.PermissionDenied("no access to this project")
	}

	if *actorRole == access_enums.ProjectRoleManager {
		return nil
	}

	if targetRole != nil && targetRole.Rank() <= actorRole.Rank() {
		return app_errors.PermissionDenied("only project manager can manage admins and managers")
	}

	if changesRoleTo != nil && changesRoleTo.Rank() <= actorRole.Rank() {
		return app_errors.PermissionDenied("only project manager can grant admin or manager role")
	}

	return nil
}

// validateTeamOwnerKeepsManagement refuses project roles below manager for
// the team owner, an explicit row would otherwise override the owner's access.
func (s *MembershipService) validateTeamOwnerKeepsManagement(
	ctx context.Context,
	resource access.Resource,
	accountID uuid.UUID,
	role access_enums.ProjectRole,
) error {
	if role == access_enums.ProjectRoleManager {
		return nil
	}

	teamRole, err := s.membershipStore.GetTeamRole(ctx, resource.TeamID, accountID)
	if err != nil {
		return err
	}

	if teamRole != nil && *teamRole == access_enums.TeamRoleOwner {
		return app_errors.OwnerProtected("team owner always manages the team's projects")
	}

	return nil
}
