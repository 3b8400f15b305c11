package teams_services

import (
	"context"
	"fmt"
	"strings"

	"zidotask/internal/features/access"
	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/features/memberships"
	teams_dto "zidotask/internal/features/teams/dto"
	teams_interfaces "zidotask/internal/features/teams/interfaces"
	teams_models "zidotask/internal/features/teams/models"
	teams_repositories "zidotask/internal/features/teams/repositories"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"
	cache_utils "zidotask/internal/util/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type TeamService struct {
	teamRepository        *teams_repositories.TeamRepository
	membershipStore       *memberships.MembershipStore
	gate                  *access.Gate
	auditLogWriter        teams_interfaces.AuditLogWriter
	teamDeletionListeners []teams_interfaces.TeamDeletionListener

	teamCacheUtil *cache_utils.CacheUtil[teams_models.Team]
	singleflight  singleflight.Group
}

func (s *TeamService) SetAuditLogWriter(writer teams_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *TeamService) AddTeamDeletionListener(listener teams_interfaces.TeamDeletionListener) {
	s.teamDeletionListeners = append(s.teamDeletionListeners, listener)
}

// CreateTeam creates the team and makes the creator its owner in one
// transaction.
func (s *TeamService) CreateTeam(
	ctx context.Context,
	request *teams_dto.CreateTeamRequestDTO,
	creator *accounts_models.Account,
) (*teams_dto.TeamResponseDTO, error) {
	if creator == nil {
		return nil, app_errors.NotAuthenticated("not authenticated")
	}

	team := &teams_models.Team{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(request.Name),
		Description: strings.TrimSpace(request.Description),
		AvatarURL:   request.AvatarURL,
	}

	if team.Name == "" {
		return nil, app_errors.Validation("team name is required")
	}

	ctx, cancel := storage.WithTimeout(ctx)
	defer cancel()

	err := storage.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.teamRepository.WithTx(tx).CreateTeam(ctx, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		_, err := s.membershipStore.WithTx(tx).CreateTeamOwner(ctx, team.ID, creator.ID)
		return err
	})
	if err != nil {
		return nil, app_errors.OrInternal(err, "failed to create team")
	}

	// pre-warm cache for immediate availability
	_ = s.teamCacheUtil.Set(ctx, team.ID.String(), team)

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Team created: %s", team.Name),
		&creator.ID,
		&team.ID,
		nil,
	)

	ownerRole := access_enums.TeamRoleOwner
	return toTeamResponse(team, &ownerRole), nil
}

// GetAccountTeams lists every team the account belongs to with its role.
func (s *TeamService) GetAccountTeams(
	ctx context.Context,
	account *accounts_models.Account,
) (*teams_dto.ListTeamsResponseDTO, error) {
	teamMemberships, err := s.membershipStore.ListAccountTeams(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	roles := make(map[uuid.UUID]access_enums.TeamRole, len(teamMemberships))
	teamIDs := make([]uuid.UUID, 0, len(teamMemberships))
	for _, membership := range teamMemberships {
		roles[membership.TeamID] = membership.Role
		teamIDs = append(teamIDs, membership.TeamID)
	}

	var teams []*teams_models.Team
	err = storage.Run(ctx, func(ctx context.Context) error {
		var err error
		teams, err = s.teamRepository.GetTeamsByIDs(ctx, teamIDs)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get teams: %w", err))
	}

	response := &teams_dto.ListTeamsResponseDTO{Teams: make([]teams_dto.TeamResponseDTO, 0, len(teams))}
	for _, team := range teams {
		role := roles[team.ID]
		response.Teams = append(response.Teams, *toTeamResponse(team, &role))
	}

	return response, nil
}

func (s *TeamService) GetTeam(
	ctx context.Context,
	teamID uuid.UUID,
	account *accounts_models.Account,
) (*teams_dto.TeamResponseDTO, error) {
	if err := s.gate.Authorize(ctx, account, access_enums.ActionView, access.TeamResource(teamID)); err != nil {
		return nil, err
	}

	team, err := s.GetTeamWithCache(ctx, teamID)
	if err != nil {
		return nil, err
	}

	role, err := s.membershipStore.GetTeamRole(ctx, teamID, account.ID)
	if err != nil {
		return nil, err
	}

	return toTeamResponse(team, role), nil
}

func (s *TeamService) UpdateTeam(
	ctx context.Context,
	teamID uuid.UUID,
	request *teams_dto.UpdateTeamRequestDTO,
	account *accounts_models.Account,
) (*teams_dto.TeamResponseDTO, error) {
	if err := s.gate.Authorize(ctx, account, access_enums.ActionUpdate, access.TeamResource(teamID)); err != nil {
		return nil, err
	}

	team, err := s.GetTeamWithCache(ctx, teamID)
	if err != nil {
		return nil, err
	}

	team.Name = strings.TrimSpace(request.Name)
	team.Description = strings.TrimSpace(request.Description)
	team.AvatarURL = request.AvatarURL

	if team.Name == "" {
		return nil, app_errors.Validation("team name is required")
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.teamRepository.UpdateTeam(ctx, team)
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to update team: %w", err))
	}

	_ = s.teamCacheUtil.Invalidate(ctx, teamID.String())

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Team updated: %s", team.Name),
		&account.ID,
		&teamID,
		nil,
	)

	role, err := s.membershipStore.GetTeamRole(ctx, teamID, account.ID)
	if err != nil {
		return nil, err
	}

	return toTeamResponse(team, role), nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, teamID uuid.UUID, account *accounts_models.Account) error {
	if err := s.gate.Authorize(ctx, account, access_enums.ActionDelete, access.TeamResource(teamID)); err != nil {
		return err
	}

	team, err := s.GetTeamWithCache(ctx, teamID)
	if err != nil {
		return err
	}

	for _, listener := range s.teamDeletionListeners {
		if err := listener.OnBeforeTeamDeletion(ctx, teamID); err != nil {
			return app_errors.OrInternal(err, "failed to delete team")
		}
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.teamRepository.DeleteTeam(ctx, teamID)
	})
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to delete team: %w", err))
	}

	_ = s.teamCacheUtil.Invalidate(ctx, teamID.String())

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Team deleted: %s", team.Name),
		&account.ID,
		&teamID,
		nil,
	)

	return nil
}

// GetTeamWithCache serves teams from valkey and collapses concurrent misses
// for the same team into one query. Misses are cached too.
func (s *TeamService) GetTeamWithCache(ctx context.Context, teamID uuid.UUID) (*teams_models.Team, error) {
	teamIDStr := teamID.String()

	if cachedTeam := s.teamCacheUtil.Get(ctx, teamIDStr); cachedTeam != nil {
		if cachedTeam.IsNotExists {
			return nil, app_errors.NotFound("team not found")
		}

		return cachedTeam, nil
	}

	result, err, _ := s.singleflight.Do(teamIDStr, func() (any, error) {
		var team *teams_models.Team

		err := storage.Run(ctx, func(ctx context.Context) error {
			var err error
			team, err = s.teamRepository.GetTeamByID(ctx, teamID)
			return err
		})

		return team, err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get team: %w", err))
	}

	team, ok := result.(*teams_models.Team)
	if !ok || team == nil {
		_ = s.teamCacheUtil.Set(ctx, teamIDStr, &teams_models.Team{ID: teamID, IsNotExists: true})
		return nil, app_errors.NotFound("team not found")
	}

	_ = s.teamCacheUtil.Set(ctx, teamIDStr, team)

	// callers may modify the team, the shared singleflight result stays intact
	teamCopy := *team
	return &teamCopy, nil
}

func toTeamResponse(team *teams_models.Team, role *access_enums.TeamRole) *teams_dto.TeamResponseDTO {
	return &teams_dto.TeamResponseDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		AvatarURL:   team.AvatarURL,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
		Role:        role,
	}
}
