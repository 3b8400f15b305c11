package teams_services

import (
	"context"
	"fmt"

	"zidotask/internal/features/access"
	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/memberships"
	teams_dto "zidotask/internal/features/teams/dto"
	teams_interfaces "zidotask/internal/features/teams/interfaces"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
)

type MembershipService struct {
	membershipStore *memberships.MembershipStore
	accountService  *accounts_services.AccountService
	gate            *access.Gate
	auditLogWriter  teams_interfaces.AuditLogWriter
}

func (s *MembershipService) SetAuditLogWriter(writer teams_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *MembershipService) GetMembers(
	ctx context.Context,
	teamID uuid.UUID,
	account *accounts_models.Account,
) (*teams_dto.GetMembersResponseDTO, error) {
	if err := s.gate.Authorize(ctx, account, access_enums.ActionView, access.TeamResource(teamID)); err != nil {
		return nil, err
	}

	members, err := s.membershipStore.ListTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &teams_dto.GetMembersResponseDTO{Members: members}, nil
}

// AddMember adds an existing account directly. Accounts that do not exist
// yet have to be invited.
func (s *MembershipService) AddMember(
	ctx context.Context,
	teamID uuid.UUID,
	request *teams_dto.AddMemberRequestDTO,
	addedBy *accounts_models.Account,
) (*memberships.TeamMembership, error) {
	if err := s.gate.Authorize(ctx, addedBy, access_enums.ActionAddMember, access.TeamResource(teamID)); err != nil {
		return nil, err
	}

	if err := s.validateCanManageMembership(ctx, teamID, addedBy, nil, &request.Role); err != nil {
		return nil, err
	}

	targetAccount, err := s.accountService.GetAccountByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}

	if targetAccount == nil {
		return nil, app_errors.NotFound("account with this email does not exist, send an invitation instead")
	}

	membership, err := s.membershipStore.AddTeamMember(ctx, teamID, targetAccount.ID, request.Role, &addedBy.ID)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Account added to team: %s as %s", targetAccount.Email, request.Role),
		&addedBy.ID,
		&teamID,
		nil,
	)

	return membership, nil
}

func (s *MembershipService) ChangeMemberRole(
	ctx context.Context,
	teamID uuid.UUID,
	memberAccountID uuid.UUID,
	request *teams_dto.ChangeMemberRoleRequestDTO,
	changedBy *accounts_models.Account,
) (*memberships.TeamMembership, error) {
	resource := access.TeamResource(teamID).WithTarget(memberAccountID)
	if err := s.gate.Authorize(ctx, changedBy, access_enums.ActionChangeMemberRole, resource); err != nil {
		return nil, err
	}

	existingMembership, err := s.membershipStore.GetTeamMembership(ctx, teamID, memberAccountID)
	if err != nil {
		return nil, err
	}

	err = s.validateCanManageMembership(ctx, teamID, changedBy, &existingMembership.Role, &request.Role)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipStore.UpdateTeamMemberRole(ctx, teamID, memberAccountID, request.Role)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Team member role changed: %s from %s to %s", memberAccountID, existingMembership.Role, request.Role),
		&changedBy.ID,
		&teamID,
		nil,
	)

	return membership, nil
}

func (s *MembershipService) RemoveMember(
	ctx context.Context,
	teamID uuid.UUID,
	memberAccountID uuid.UUID,
	removedBy *accounts_models.Account,
) error {
	resource := access.TeamResource(teamID).WithTarget(memberAccountID)
	if err := s.gate.Authorize(ctx, removedBy, access_enums.ActionRemoveMember, resource); err != nil {
		return err
	}

	existingMembership, err := s.membershipStore.GetTeamMembership(ctx, teamID, memberAccountID)
	if err != nil {
		return err
	}

	if err := s.validateCanManageMembership(ctx, teamID, removedBy, &existingMembership.Role, nil); err != nil {
		return err
	}

	if err := s.membershipStore.RemoveTeamMember(ctx, teamID, memberAccountID); err != nil {
		return err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Member removed from team: %s", memberAccountID),
		&removedBy.ID,
		&teamID,
		nil,
	)

	return nil
}

func (s *MembershipService) TransferOwnership(
	ctx context.Context,
	teamID uuid.UUID,
	request *teams_dto.TransferOwnershipRequestDTO,
	account *accounts_models.Account,
) error {
	if account == nil {
		return app_errors.NotAuthenticated("not authenticated")
	}

	newOwner, err := s.accountService.GetAccountByEmail(ctx, request.NewOwnerEmail)
	if err != nil {
		return err
	}

	if newOwner == nil {
		return app_errors.NotFound("new owner not found")
	}

	resource := access.TeamResource(teamID).WithTarget(newOwner.ID)
	if err := s.gate.Authorize(ctx, account, access_enums.ActionTransferOwnership, resource); err != nil {
		return err
	}

	if err := s.membershipStore.TransferTeamOwnership(ctx, teamID, account.ID, newOwner.ID); err != nil {
		return err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Team ownership transferred to: %s", newOwner.Email),
		&account.ID,
		&teamID,
		nil,
	)

	return nil
}

// validateCanManageMembership applies the rank rules on top of the gate: the
// owner is never a target, and only the owner manages admins.
func (s *MembershipService) validateCanManageMembership(
	ctx context.Context,
	teamID uuid.UUID,
	actor *accounts_models.Account,
	targetRole *access_enums.TeamRole,
	changesRoleTo *access_enums.TeamRole,
) error {
	if targetRole != nil && *targetRole == access_enums.TeamRoleOwner {
		return app_errors.OwnerProtected("team owner cannot be removed or demoted, transfer ownership first")
	}

	if changesRoleTo != nil && *changesRoleTo == access_enums.TeamRoleOwner {
		return app_errors.OwnerProtected("owner role can only be granted by transferring ownership")
	}

	actorRole, err := s.membershipStore.GetTeamRole(ctx, teamID, actor.ID)
	if err != nil {
		return err
	}

	if actorRole == nil {
		return app_errors.PermissionDenied("not a member of this team")
	}

	if *actorRole == access_enums.TeamRoleOwner {
		return nil
	}

	if targetRole != nil && targetRole.Rank() <= actorRole.Rank() {
		return app_errors.PermissionDenied("only team owner can manage admins")
	}

	if changesRoleTo != nil && *changesRoleTo == access_enums.TeamRoleAdmin {
		return app_errors.PermissionDenied("only team owner can add/manage admins")
	}

	return nil
}
