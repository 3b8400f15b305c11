package memberships

import (
	"context"
	"fmt"

	access_enums "zidotask/internal/features/access/enums"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipStore owns team and project membership rows and enforces their
// invariants: one owner per team, at least one manager per project, no
// duplicate pairs and optimistic versioning of role changes.
type MembershipStore struct {
	repository *MembershipRepository
	// set when the store runs inside a caller's transaction
	tx *gorm.DB
}

// WithTx returns a store whose operations join the given transaction.
func (s *MembershipStore) WithTx(tx *gorm.DB) *MembershipStore {
	return &MembershipStore{repository: s.repository.WithTx(tx), tx: tx}
}

func (s *MembershipStore) GetTeamRole(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) (*access_enums.TeamRole, error) {
	membership, err := s.findTeamMembership(ctx, teamID, accountID)
	if err != nil || membership == nil {
		return nil, err
	}

	return &membership.Role, nil
}

func (s *MembershipStore) GetProjectRole(
	ctx context.Context,
	projectID, accountID uuid.UUID,
) (*access_enums.ProjectRole, error) {
	membership, err := s.findProjectMembership(ctx, projectID, accountID)
	if err != nil || membership == nil {
		return nil, err
	}

	return &membership.Role, nil
}

func (s *MembershipStore) GetTeamMembership(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) (*TeamMembership, error) {
	membership, err := s.findTeamMembership(ctx, teamID, accountID)
	if err != nil {
		return nil, err
	}

	if membership == nil {
		return nil, app_errors.NotFound("account is not a member of this team")
	}

	return membership, nil
}

func (s *MembershipStore) GetProjectMembership(
	ctx context.Context,
	projectID, accountID uuid.UUID,
) (*ProjectMembership, error) {
	membership, err := s.findProjectMembership(ctx, projectID, accountID)
	if err != nil {
		return nil, err
	}

	if membership == nil {
		return nil, app_errors.NotFound("account is not a member of this project")
	}

	return membership, nil
}

// CreateTeamOwner records the creator of a new team as its owner.
func (s *MembershipStore) CreateTeamOwner(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) (*TeamMembership, error) {
	membership := &TeamMembership{
		TeamID:    teamID,
		AccountID: accountID,
		Role:      access_enums.TeamRoleOwner,
	}

	err := storage.Run(ctx, func(ctx context.Context) error {
		return s.repository.CreateTeamMembership(ctx, membership)
	})
	if err != nil {
		if storage.IsDuplicateKey(err) {
			return nil, app_errors.OwnerProtected("team already has an owner")
		}

		return nil, app_errors.Internal(fmt.Errorf("failed to create team owner: %w", err))
	}

	return membership, nil
}

func (s *MembershipStore) AddTeamMember(
	ctx context.Context,
	teamID, accountID uuid.UUID,
	role access_enums.TeamRole,
	invitedBy *uuid.UUID,
) (*TeamMembership, error) {
	if role == access_enums.TeamRoleOwner {
		return nil, app_errors.OwnerProtected("owner role can only be granted by transferring ownership")
	}

	if !role.IsAssignable() {
		return nil, app_errors.Validation(fmt.Sprintf("invalid team role: %s", role))
	}

	existing, err := s.findTeamMembership(ctx, teamID, accountID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, app_errors.AlreadyMember("account is already a member of this team")
	}

	membership := &TeamMembership{
		TeamID:    teamID,
		AccountID: accountID,
		Role:      role,
		InvitedBy: invitedBy,
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.repository.CreateTeamMembership(ctx, membership)
	})
	if err != nil {
		if storage.IsDuplicateKey(err) {
			return nil, app_errors.AlreadyMember("account is already a member of this team")
		}

		return nil, app_errors.Internal(fmt.Errorf("failed to add team member: %w", err))
	}

	return membership, nil
}

// RemoveTeamMember deletes the membership together with the account's
// memberships in the team's projects. It refuses when the account owns the
// team or is the last manager of one of those projects.
func (s *MembershipStore) RemoveTeamMember(ctx context.Context, teamID, accountID uuid.UUID) error {
	return s.inTransaction(ctx, func(store *MembershipStore) error {
		membership, err := store.GetTeamMembership(ctx, teamID, accountID)
		if err != nil {
			return err
		}

		if membership.Role == access_enums.TeamRoleOwner {
			return app_errors.OwnerProtected("team owner cannot be removed, transfer ownership first")
		}

		projectMemberships, err := store.repository.GetAccountProjectMembershipsInTeam(ctx, teamID, accountID)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to get project memberships: %w", err))
		}

		for _, projectMembership := range projectMemberships {
			if err := store.removeProjectMembership(ctx, projectMembership); err != nil {
				return err
			}
		}

		isDeleted, err := store.repository.DeleteTeamMembership(ctx, membership.ID, membership.Version)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to remove team member: %w", err))
		}

		if !isDeleted {
			return store.teamConflict(ctx, membership.ID)
		}

		return nil
	})
}

func (s *MembershipStore) UpdateTeamMemberRole(
	ctx context.Context,
	teamID, accountID uuid.UUID,
	role access_enums.TeamRole,
) (*TeamMembership, error) {
	if role == access_enums.TeamRoleOwner {
		return nil, app_errors.OwnerProtected("owner role can only be granted by transferring ownership")
	}

	if !role.IsAssignable() {
		return nil, app_errors.Validation(fmt.Sprintf("invalid team role: %s", role))
	}

	membership, err := s.GetTeamMembership(ctx, teamID, accountID)
	if err != nil {
		return nil, err
	}

	if membership.Role == access_enums.TeamRoleOwner {
		return nil, app_errors.OwnerProtected("team owner cannot be demoted, transfer ownership first")
	}

	var isUpdated bool
	err = storage.Run(ctx, func(ctx context.Context) error {
		var err error
		isUpdated, err = s.repository.UpdateTeamMembershipRole(ctx, membership.ID, membership.Version, role)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to update team member role: %w", err))
	}

	if !isUpdated {
		return nil, s.teamConflict(ctx, membership.ID)
	}

	membership.Role = role
	membership.Version++

	return membership, nil
}

// TransferTeamOwnership makes toAccountID the owner and demotes the current
// owner to admin. Both rows are locked for the duration of the swap.
func (s *MembershipStore) TransferTeamOwnership(ctx context.Context, teamID, fromAccountID, toAccountID uuid.UUID) error {
	if fromAccountID == toAccountID {
		return app_errors.SelfModification("ownership cannot be transferred to the current owner")
	}

	return s.inTransaction(ctx, func(store *MembershipStore) error {
		currentOwner, err := store.repository.GetTeamMembershipForUpdate(ctx, teamID, fromAccountID)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to lock current owner: %w", err))
		}

		if currentOwner == nil || currentOwner.Role != access_enums.TeamRoleOwner {
			return app_errors.PermissionDenied("only the team owner can transfer ownership")
		}

		newOwner, err := store.repository.GetTeamMembershipForUpdate(ctx, teamID, toAccountID)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to lock new owner: %w", err))
		}

		if newOwner == nil {
			return app_errors.NotFound("new owner must be a team member")
		}

		// demote first, a team never holds two owners
		isUpdated, err := store.repository.UpdateTeamMembershipRole(
			ctx,
			currentOwner.ID,
			currentOwner.Version,
			access_enums.TeamRoleAdmin,
		)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to demote current owner: %w", err))
		}

		if !isUpdated {
			return app_errors.ConcurrentModification("team ownership changed concurrently")
		}

		isUpdated, err = store.repository.UpdateTeamMembershipRole(
			ctx,
			newOwner.ID,
			newOwner.Version,
			access_enums.TeamRoleOwner,
		)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to promote new owner: %w", err))
		}

		if !isUpdated {
			return app_errors.ConcurrentModification("team membership changed concurrently")
		}

		return nil
	})
}

// ListTeamMembers returns members ordered by role rank, then join time.
func (s *MembershipStore) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]*TeamMember, error) {
	var members []*TeamMember

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		members, err = s.repository.GetTeamMembers(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to list team members: %w", err))
	}

	SortTeamMembers(members)

	return members, nil
}

// ListAccountTeams returns every team membership the account holds, oldest
// first.
func (s *MembershipStore) ListAccountTeams(ctx context.Context, accountID uuid.UUID) ([]*TeamMembership, error) {
	var memberships []*TeamMembership

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		memberships, err = s.repository.GetAccountTeamMemberships(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to list account teams: %w", err))
	}

	return memberships, nil
}

// AddProjectMember requires the account to already belong to the team that
// owns the project.
func (s *MembershipStore) AddProjectMember(
	ctx context.Context,
	projectID, accountID uuid.UUID,
	role access_enums.ProjectRole,
) (*ProjectMembership, error) {
	if !role.IsValid() {
		return nil, app_errors.Validation(fmt.Sprintf("invalid project role: %s", role))
	}

	var teamID *uuid.UUID
	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		teamID, err = s.repository.GetProjectTeamID(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get project: %w", err))
	}

	if teamID == nil {
		return nil, app_errors.NotFound("project not found")
	}

	teamMembership, err := s.findTeamMembership(ctx, *teamID, accountID)
	if err != nil {
		return nil, err
	}

	if teamMembership == nil {
		return nil, app_errors.Validation("account must be a member of the project's team").
			WithCode("NOT_A_TEAM_MEMBER")
	}

	existing, err := s.findProjectMembership(ctx, projectID, accountID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, app_errors.AlreadyMember("account is already a member of this project")
	}

	membership := &ProjectMembership{
		ProjectID: projectID,
		AccountID: accountID,
		Role:      role,
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.repository.CreateProjectMembership(ctx, membership)
	})
	if err != nil {
		if storage.IsDuplicateKey(err) {
			return nil, app_errors.AlreadyMember("account is already a member of this project")
		}

		return nil, app_errors.Internal(fmt.Errorf("failed to add project member: %w", err))
	}

	return membership, nil
}

func (s *MembershipStore) RemoveProjectMember(ctx context.Context, projectID, accountID uuid.UUID) error {
	return s.inTransaction(ctx, func(store *MembershipStore) error {
		membership, err := store.GetProjectMembership(ctx, projectID, accountID)
		if err != nil {
			return err
		}

		return store.removeProjectMembership(ctx, membership)
	})
}

func (s *MembershipStore) UpdateProjectMemberRole(
	ctx context.Context,
	projectID, accountID uuid.UUID,
	role access_enums.ProjectRole,
) (*ProjectMembership, error) {
	if !role.IsValid() {
		return nil, app_errors.Validation(fmt.Sprintf("invalid project role: %s", role))
	}

	var membership *ProjectMembership

	err := s.inTransaction(ctx, func(store *MembershipStore) error {
		var err error
		membership, err = store.GetProjectMembership(ctx, projectID, accountID)
		if err != nil {
			return err
		}

		if membership.Role == access_enums.ProjectRoleManager && role != access_enums.ProjectRoleManager {
			if err := store.ensureNotLastManager(ctx, projectID); err != nil {
				return err
			}
		}

		isUpdated, err := store.repository.UpdateProjectMembershipRole(ctx, membership.ID, membership.Version, role)
		if err != nil {
			return app_errors.Internal(fmt.Errorf("failed to update project member role: %w", err))
		}

		if !isUpdated {
			return store.projectConflict(ctx, membership.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	membership.Role = role
	membership.Version++

	return membership, nil
}

// ListProjectMembers returns members ordered by role rank, then join time.
func (s *MembershipStore) ListProjectMembers(ctx context.Context, projectID uuid.UUID) ([]*ProjectMember, error) {
	var members []*ProjectMember

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		members, err = s.repository.GetProjectMembers(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to list project members: %w", err))
	}

	SortProjectMembers(members)

	return members, nil
}

// CreateProjectManager records the creator of a new project as its manager.
// Unlike AddProjectMember it skips the team check, the caller has already
// authorized project creation against the team.
func (s *MembershipStore) CreateProjectManager(
	ctx context.Context,
	projectID, accountID uuid.UUID,
) (*ProjectMembership, error) {
	membership := &ProjectMembership{
		ProjectID: projectID,
		AccountID: accountID,
		Role:      access_enums.ProjectRoleManager,
	}

	err := storage.Run(ctx, func(ctx context.Context) error {
		return s.repository.CreateProjectMembership(ctx, membership)
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to create project manager: %w", err))
	}

	return membership, nil
}

func (s *MembershipStore) removeProjectMembership(ctx context.Context, membership *ProjectMembership) error {
	if membership.Role == access_enums.ProjectRoleManager {
		if err := s.ensureNotLastManager(ctx, membership.ProjectID); err != nil {
			return err
		}
	}

	isDeleted, err := s.repository.DeleteProjectMembership(ctx, membership.ID, membership.Version)
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to remove project member: %w", err))
	}

	if !isDeleted {
		return s.projectConflict(ctx, membership.ID)
	}

	return nil
}

// ensureNotLastManager must run inside a transaction, the manager rows stay
// locked until it ends.
func (s *MembershipStore) ensureNotLastManager(ctx context.Context, projectID uuid.UUID) error {
	managersCount, err := s.repository.LockProjectManagers(ctx, projectID)
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to lock project managers: %w", err))
	}

	if managersCount <= 1 {
		return app_errors.OwnerProtected("the last manager of a project cannot be removed or demoted")
	}

	return nil
}

func (s *MembershipStore) teamConflict(ctx context.Context, membershipID uuid.UUID) error {
	isExists, err := s.repository.IsTeamMembershipExists(ctx, membershipID)
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to check team membership: %w", err))
	}

	if !isExists {
		return app_errors.NotFound("account is not a member of this team")
	}

	return app_errors.ConcurrentModification("team membership was changed concurrently, retry the request")
}

func (s *MembershipStore) projectConflict(ctx context.Context, membershipID uuid.UUID) error {
	isExists, err := s.repository.IsProjectMembershipExists(ctx, membershipID)
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to check project membership: %w", err))
	}

	if !isExists {
		return app_errors.NotFound("account is not a member of this project")
	}

	return app_errors.ConcurrentModification("project membership was changed concurrently, retry the request")
}

func (s *MembershipStore) findTeamMembership(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) (*TeamMembership, error) {
	var membership *TeamMembership

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		membership, err = s.repository.GetTeamMembership(ctx, teamID, accountID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get team membership: %w", err))
	}

	return membership, nil
}

func (s *MembershipStore) findProjectMembership(
	ctx context.Context,
	projectID, accountID uuid.UUID,
) (*ProjectMembership, error) {
	var membership *ProjectMembership

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		membership, err = s.repository.GetProjectMembership(ctx, projectID, accountID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get project membership: %w", err))
	}

	return membership, nil
}

// inTransaction joins the caller's transaction when there is one, otherwise
// opens a new one bounded by the store timeout.
func (s *MembershipStore) inTransaction(ctx context.Context, fn func(store *MembershipStore) error) error {
	if s.tx != nil {
		return fn(s)
	}

	ctx, cancel := storage.WithTimeout(ctx)
	defer cancel()

	err := storage.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(s.WithTx(tx))
	})

	return app_errors.OrInternal(err, "membership transaction failed")
}
