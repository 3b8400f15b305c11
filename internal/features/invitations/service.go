package invitations

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"zidotask/internal/features/access"
	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/memberships"
	teams_services "zidotask/internal/features/teams/services"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"
	"zidotask/internal/util/rate_limit"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accept and decline attempts per account
var respondRateLimit = rate_limit.Limit{PerMinute: 10, Burst: 10}

type InvitationService struct {
	invitationRepository *InvitationRepository
	membershipStore      *memberships.MembershipStore
	teamService          *teams_services.TeamService
	accountService       *accounts_services.AccountService
	gate                 *access.Gate
	rateLimiter          *rate_limit.RateLimiter
	auditLogWriter       AuditLogWriter
	logger               *slog.Logger

	invitationTTL time.Duration
	appBaseURL    string
}

func (s *InvitationService) SetAuditLogWriter(writer AuditLogWriter) {
	s.auditLogWriter = writer
}

// CreateInvitation issues a single-use token for the email. The raw token is
// returned once and only its hash is stored.
func (s *InvitationService) CreateInvitation(
	ctx context.Context,
	teamID uuid.UUID,
	request *CreateInvitationRequestDTO,
	inviter *accounts_models.Account,
) (*CreateInvitationResponseDTO, error) {
	if err := s.gate.Authorize(ctx, inviter, access_enums.ActionInvite, access.TeamResource(teamID)); err != nil {
		return nil, err
	}

	if !request.Role.IsAssignable() {
		return nil, app_errors.Validation(fmt.Sprintf("invalid invitation role: %s", request.Role))
	}

	if err := s.validateInviterRank(ctx, teamID, inviter, request.Role); err != nil {
		return nil, err
	}

	email := accounts_models.NormalizeEmail(request.Email)

	existingAccount, err := s.accountService.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existingAccount != nil {
		role, err := s.membershipStore.GetTeamRole(ctx, teamID, existingAccount.ID)
		if err != nil {
			return nil, err
		}

		if role != nil {
			return nil, app_errors.AlreadyMember("account with this email is already a member of this team")
		}
	}

	now := time.Now().UTC()

	token, err := generateToken()
	if err != nil {
		return nil, app_errors.Internal(err)
	}

	invitation := &TeamInvitation{
		ID:          uuid.New(),
		TeamID:      teamID,
		Email:       email,
		Role:        request.Role,
		InvitedBy:   inviter.ID,
		TokenHash:   token.Hash,
		TokenPrefix: token.Prefix,
		Status:      InvitationStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.invitationTTL),
	}

	// the team row lock serializes concurrent invites of the same email
	err = s.inTransaction(ctx, func(tx *gorm.DB) error {
		repository := s.invitationRepository.WithTx(tx)

		if err := repository.LockTeam(ctx, teamID); err != nil {
			return err
		}

		pending, err := repository.GetPendingInvitation(ctx, teamID, email, now)
		if err != nil {
			return fmt.Errorf("failed to check pending invitations: %w", err)
		}

		if pending != nil {
			return app_errors.InvitationAlreadyPending()
		}

		return repository.CreateInvitation(ctx, invitation)
	})
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Invitation created for %s as %s", email, request.Role),
		&inviter.ID,
		&teamID,
		nil,
	)

	return &CreateInvitationResponseDTO{
		Invitation:     toInvitationResponse(invitation, now),
		Token:          token.Raw,
		InvitationLink: s.buildInvitationLink(token.Raw),
	}, nil
}

func (s *InvitationService) PreviewInvitation(
	ctx context.Context,
	token string,
	principal *accounts_models.Account,
) (*InvitationPreviewResponseDTO, error) {
	if principal == nil {
		return nil, app_errors.NotAuthenticated("not authenticated")
	}

	var invitation *TeamInvitation
	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		invitation, err = s.invitationRepository.GetInvitationByTokenHash(ctx, hashToken(token))
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get invitation: %w", err))
	}

	if invitation == nil {
		return nil, app_errors.InvitationNotFound()
	}

	team, err := s.teamService.GetTeamWithCache(ctx, invitation.TeamID)
	if err != nil {
		return nil, err
	}

	return &InvitationPreviewResponseDTO{
		TeamID:    invitation.TeamID,
		TeamName:  team.Name,
		Email:     invitation.Email,
		Role:      invitation.Role,
		Status:    invitation.EffectiveStatus(time.Now().UTC()),
		ExpiresAt: invitation.ExpiresAt,
	}, nil
}

// AcceptInvitation adds the principal to the team and marks the invitation
// accepted in one transaction, so either both happen or neither does.
func (s *InvitationService) AcceptInvitation(
	ctx context.Context,
	token string,
	principal *accounts_models.Account,
) (*AcceptInvitationResponseDTO, error) {
	if err := s.checkRespondRateLimit(ctx, principal); err != nil {
		return nil, err
	}

	var (
		invitation *TeamInvitation
		membership *memberships.TeamMembership
	)

	err := s.inTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		invitation, err = s.lockRespondableInvitation(ctx, tx, token, principal)
		if err != nil {
			return err
		}

		membership, err = s.membershipStore.WithTx(tx).AddTeamMember(
			ctx,
			invitation.TeamID,
			principal.ID,
			invitation.Role,
			&invitation.InvitedBy,
		)
		if err != nil {
			return err
		}

		return s.markResponded(ctx, tx, invitation, InvitationStatusAccepted, principal)
	})
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Invitation accepted by %s as %s", principal.Email, invitation.Role),
		&principal.ID,
		&invitation.TeamID,
		nil,
	)

	return &AcceptInvitationResponseDTO{
		TeamID:     invitation.TeamID,
		Membership: membership,
	}, nil
}

func (s *InvitationService) DeclineInvitation(
	ctx context.Context,
	token string,
	principal *accounts_models.Account,
) error {
	if err := s.checkRespondRateLimit(ctx, principal); err != nil {
		return err
	}

	var invitation *TeamInvitation

	err := s.inTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		invitation, err = s.lockRespondableInvitation(ctx, tx, token, principal)
		if err != nil {
			return err
		}

		return s.markResponded(ctx, tx, invitation, InvitationStatusDeclined, principal)
	})
	if err != nil {
		return err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Invitation declined by %s", principal.Email),
		&principal.ID,
		&invitation.TeamID,
		nil,
	)

	return nil
}

func (s *InvitationService) ListTeamInvitations(
	ctx context.Context,
	teamID uuid.UUID,
	account *accounts_models.Account,
) (*ListInvitationsResponseDTO, error) {
	err := s.gate.Authorize(ctx, account, access_enums.ActionListInvitations, access.TeamResource(teamID))
	if err != nil {
		return nil, err
	}

	var invitations []*TeamInvitation
	err = storage.Run(ctx, func(ctx context.Context) error {
		var err error
		invitations, err = s.invitationRepository.GetTeamInvitations(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to list invitations: %w", err))
	}

	now := time.Now().UTC()
	response := &ListInvitationsResponseDTO{Invitations: make([]InvitationResponseDTO, 0, len(invitations))}
	for _, invitation := range invitations {
		response.Invitations = append(response.Invitations, toInvitationResponse(invitation, now))
	}

	return response, nil
}

// DeleteExpiredInvitations purges invitations that expired before the
// given time, answered or not.
func (s *InvitationService) DeleteExpiredInvitations(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.invitationRepository.DeleteInvitationsOlderThan(ctx, before)
		return err
	})

	return deleted, err
}

func (s *InvitationService) lockRespondableInvitation(
	ctx context.Context,
	tx *gorm.DB,
	token string,
	principal *accounts_models.Account,
) (*TeamInvitation, error) {
	invitation, err := s.invitationRepository.WithTx(tx).GetInvitationByTokenHashForUpdate(ctx, hashToken(token))
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get invitation: %w", err))
	}

	if invitation == nil {
		return nil, app_errors.InvitationNotFound()
	}

	if err := validateRespondable(invitation, time.Now().UTC()); err != nil {
		return nil, err
	}

	if !principal.HasEmail(invitation.Email) {
		return nil, app_errors.EmailMismatch()
	}

	return invitation, nil
}

func (s *InvitationService) markResponded(
	ctx context.Context,
	tx *gorm.DB,
	invitation *TeamInvitation,
	status InvitationStatus,
	principal *accounts_models.Account,
) error {
	isUpdated, err := s.invitationRepository.WithTx(tx).MarkResponded(
		ctx,
		invitation.ID,
		status,
		principal.ID,
		time.Now().UTC(),
	)
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to update invitation: %w", err))
	}

	if !isUpdated {
		return app_errors.InvitationExpired("invitation already used")
	}

	invitation.Status = status
	return nil
}

func (s *InvitationService) checkRespondRateLimit(ctx context.Context, principal *accounts_models.Account) error {
	if principal == nil {
		return app_errors.NotAuthenticated("not authenticated")
	}

	result, err := s.rateLimiter.CheckRateLimit(ctx, principal.ID.String(), respondRateLimit)
	if err != nil {
		s.logger.Error("invitation rate limit check failed", "accountId", principal.ID, "error", err)
		return app_errors.Internal(err)
	}

	if !result.Allowed {
		return app_errors.RateLimited(
			fmt.Sprintf("too many invitation attempts, retry after %d seconds", result.RetryAfterSec),
		)
	}

	return nil
}

// validateInviterRank keeps admin invitations to the owner, as for direct
// membership changes.
func (s *InvitationService) validateInviterRank(
	ctx context.Context,
	teamID uuid.UUID,
	inviter *accounts_models.Account,
	role access_enums.TeamRole,
) error {
	if role != access_enums.TeamRoleAdmin {
		return nil
	}

	inviterRole, err := s.membershipStore.GetTeamRole(ctx, teamID, inviter.ID)
	if err != nil {
		return err
	}

	if inviterRole == nil || *inviterRole != access_enums.TeamRoleOwner {
		return app_errors.PermissionDenied("only team owner can invite admins")
	}

	return nil
}

func (s *InvitationService) inTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := storage.WithTimeout(ctx)
	defer cancel()

	return app_errors.OrInternal(storage.Transaction(ctx, fn), "invitation transaction failed")
}

func (s *InvitationService) buildInvitationLink(token string) string {
	return strings.TrimRight(s.appBaseURL, "/") + "/invitations/team?token=" + url.QueryEscape(token)
}

func validateRespondable(invitation *TeamInvitation, now time.Time) error {
	switch invitation.Status {
	case InvitationStatusAccepted:
		return app_errors.InvitationExpired("invitation already used")
	case InvitationStatusDeclined:
		return app_errors.InvitationExpired("invitation was declined")
	}

	if invitation.IsExpired(now) {
		return app_errors.InvitationExpired("invitation has expired")
	}

	return nil
}

func toInvitationResponse(invitation *TeamInvitation, now time.Time) InvitationResponseDTO {
	return InvitationResponseDTO{
		ID:          invitation.ID,
		TeamID:      invitation.TeamID,
		Email:       invitation.Email,
		Role:        invitation.Role,
		InvitedBy:   invitation.InvitedBy,
		TokenPrefix: invitation.TokenPrefix,
		Status:      invitation.EffectiveStatus(now),
		CreatedAt:   invitation.CreatedAt,
		ExpiresAt:   invitation.ExpiresAt,
		RespondedAt: invitation.RespondedAt,
	}
}
