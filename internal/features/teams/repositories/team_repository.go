package teams_repositories

import (
	"context"
	"errors"
	"time"

	teams_models "zidotask/internal/features/teams/models"
	"zidotask/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository struct {
	// nil outside of a transaction
	db *gorm.DB
}

func (r *TeamRepository) WithTx(tx *gorm.DB) *TeamRepository {
	return &TeamRepository{db: tx}
}

func (r *TeamRepository) conn(ctx context.Context) *gorm.DB {
	if r.db != nil {
		return r.db.WithContext(ctx)
	}

	return storage.GetDb().WithContext(ctx)
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *teams_models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}

	now := time.Now().UTC()
	if team.CreatedAt.IsZero() {
		team.CreatedAt = now
	}
	team.UpdatedAt = now

	return r.conn(ctx).Create(team).Error
}

// GetTeamByID returns nil when the team does not exist.
func (r *TeamRepository) GetTeamByID(ctx context.Context, teamID uuid.UUID) (*teams_models.Team, error) {
	var team teams_models.Team

	if err := r.conn(ctx).Where("id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &team, nil
}

func (r *TeamRepository) GetTeamsByIDs(ctx context.Context, teamIDs []uuid.UUID) ([]*teams_models.Team, error) {
	teams := make([]*teams_models.Team, 0)
	if len(teamIDs) == 0 {
		return teams, nil
	}

	err := r.conn(ctx).Where("id IN ?", teamIDs).Order("name ASC").Find(&teams).Error

	return teams, err
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team *teams_models.Team) error {
	team.UpdatedAt = time.Now().UTC()

	return r.conn(ctx).Model(&teams_models.Team{}).
		Where("id = ?", team.ID).
		Updates(map[string]any{
			"name":        team.Name,
			"description": team.Description,
			"avatar_url":  team.AvatarURL,
			"updated_at":  team.UpdatedAt,
		}).Error
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, teamID uuid.UUID) error {
	return r.conn(ctx).Delete(&teams_models.Team{}, teamID).Error
}
