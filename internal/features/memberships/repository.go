package memberships

import (
	"context"
	"errors"
	"time"

	access_enums "zidotask/internal/features/access/enums"
	"zidotask/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	// nil outside of a transaction
	db *gorm.DB
}

func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: tx}
}

func (r *MembershipRepository) conn(ctx context.Context) *gorm.DB {
	if r.db != nil {
		return r.db.WithContext(ctx)
	}

	return storage.GetDb().WithContext(ctx)
}

func (r *MembershipRepository) CreateTeamMembership(ctx context.Context, membership *TeamMembership) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}

	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now().UTC()
	}

	if membership.Version == 0 {
		membership.Version = 1
	}

	return r.conn(ctx).Create(membership).Error
}

func (r *MembershipRepository) GetTeamMembership(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) (*TeamMembership, error) {
	return r.getTeamMembership(r.conn(ctx), teamID, accountID)
}

// GetTeamMembershipForUpdate locks the row until the surrounding transaction
// ends.
func (r *MembershipRepository) GetTeamMembershipForUpdate(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) (*TeamMembership, error) {
	return r.getTeamMembership(
		r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		teamID,
		accountID,
	)
}

func (r *MembershipRepository) getTeamMembership(
	db *gorm.DB,
	teamID, accountID uuid.UUID,
) (*TeamMembership, error) {
	var membership TeamMembership

	err := db.Where("team_id = ? AND account_id = ?", teamID, accountID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

// UpdateTeamMembershipRole applies the role only when the row still carries
// the expected version. It reports whether a row was changed.
func (r *MembershipRepository) UpdateTeamMembershipRole(
	ctx context.Context,
	membershipID uuid.UUID,
	expectedVersion int64,
	role access_enums.TeamRole,
) (bool, error) {
	result := r.conn(ctx).Model(&TeamMembership{}).
		Where("id = ? AND version = ?", membershipID, expectedVersion).
		Updates(map[string]any{
			"role":    role,
			"version": gorm.Expr("version + 1"),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *MembershipRepository) DeleteTeamMembership(
	ctx context.Context,
	membershipID uuid.UUID,
	expectedVersion int64,
) (bool, error) {
	result := r.conn(ctx).
		Where("id = ? AND version = ?", membershipID, expectedVersion).
		Delete(&TeamMembership{})

	return result.RowsAffected > 0, result.Error
}

func (r *MembershipRepository) IsTeamMembershipExists(ctx context.Context, membershipID uuid.UUID) (bool, error) {
	var count int64

	err := r.conn(ctx).Model(&TeamMembership{}).Where("id = ?", membershipID).Count(&count).Error

	return count > 0, err
}

func (r *MembershipRepository) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]*TeamMember, error) {
	members := make([]*TeamMember, 0)

	err := r.conn(ctx).
		Table("team_memberships tm").
		Select(`tm.id AS membership_id, tm.account_id, a.email, a.display_name, a.avatar_url,
			tm.role, tm.joined_at, tm.invited_by`).
		Joins("JOIN accounts a ON tm.account_id = a.id").
		Where("tm.team_id = ?", teamID).
		Order("tm.joined_at ASC").
		Scan(&members).Error

	return members, err
}

func (r *MembershipRepository) GetAccountTeamMemberships(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*TeamMembership, error) {
	memberships := make([]*TeamMembership, 0)

	err := r.conn(ctx).
		Where("account_id = ?", accountID).
		Order("joined_at ASC").
		Find(&memberships).Error

	return memberships, err
}

func (r *MembershipRepository) CreateProjectMembership(ctx context.Context, membership *ProjectMembership) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}

	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now().UTC()
	}

	if membership.Version == 0 {
		membership.Version = 1
	}

	return r.conn(ctx).Create(membership).Error
}

func (r *MembershipRepository) GetProjectMembership(
	ctx context.Context,
	projectID, accountID uuid.UUID,
) (*ProjectMembership, error) {
	var membership ProjectMembership

	err := r.conn(ctx).
		Where("project_id = ? AND account_id = ?", projectID, accountID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

// LockProjectManagers locks every manager row of the project and returns how
// many there are.
func (r *MembershipRepository) LockProjectManagers(ctx context.Context, projectID uuid.UUID) (int, error) {
	var managers []*ProjectMembership

	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ? AND role = ?", projectID, access_enums.ProjectRoleManager).
		Order("id").
		Find(&managers).Error

	return len(managers), err
}

func (r *MembershipRepository) UpdateProjectMembershipRole(
	ctx context.Context,
	membershipID uuid.UUID,
	expectedVersion int64,
	role access_enums.ProjectRole,
) (bool, error) {
	result := r.conn(ctx).Model(&ProjectMembership{}).
		Where("id = ? AND version = ?", membershipID, expectedVersion).
		Updates(map[string]any{
			"role":    role,
			"version": gorm.Expr("version + 1"),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *MembershipRepository) DeleteProjectMembership(
	ctx context.Context,
	membershipID uuid.UUID,
	expectedVersion int64,
) (bool, error) {
	result := r.conn(ctx).
		Where("id = ? AND version = ?", membershipID, expectedVersion).
		Delete(&ProjectMembership{})

	return result.RowsAffected > 0, result.Error
}

func (r *MembershipRepository) IsProjectMembershipExists(ctx context.Context, membershipID uuid.UUID) (bool, error) {
	var count int64

	err := r.conn(ctx).Model(&ProjectMembership{}).Where("id = ?", membershipID).Count(&count).Error

	return count > 0, err
}

func (r *MembershipRepository) GetProjectMembers(ctx context.Context, projectID uuid.UUID) ([]*ProjectMember, error) {
	members := make([]*ProjectMember, 0)

	err := r.conn(ctx).
		Table("project_memberships pm").
		Select(`pm.id AS membership_id, pm.account_id, a.email, a.display_name, a.avatar_url,
			pm.role, pm.joined_at`).
		Joins("JOIN accounts a ON pm.account_id = a.id").
		Where("pm.project_id = ?", projectID).
		Order("pm.joined_at ASC").
		Scan(&members).Error

	return members, err
}

// GetAccountProjectMembershipsInTeam returns the account's memberships in
// every project the team owns.
func (r *MembershipRepository) GetAccountProjectMembershipsInTeam(
	ctx context.Context,
	teamID, accountID uuid.UUID,
) ([]*ProjectMembership, error) {
	memberships := make([]*ProjectMembership, 0)

	err := r.conn(ctx).
		Table("project_memberships pm").
		Select("pm.*").
		Joins("JOIN projects p ON pm.project_id = p.id").
		Where("p.team_id = ? AND pm.account_id = ?", teamID, accountID).
		Scan(&memberships).Error

	return memberships, err
}

// GetProjectTeamID returns nil when the project does not exist.
func (r *MembershipRepository) GetProjectTeamID(ctx context.Context, projectID uuid.UUID) (*uuid.UUID, error) {
	var teamIDs []uuid.UUID

	err := r.conn(ctx).Table("projects").Where("id = ?", projectID).Pluck("team_id", &teamIDs).Error
	if err != nil || len(teamIDs) == 0 {
		return nil, err
	}

	return &teamIDs[0], nil
}
