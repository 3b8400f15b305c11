package projects_repositories

import (
	"context"
	"errors"
	"time"

	projects_models "zidotask/internal/features/projects/models"
	"zidotask/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	// nil outside of a transaction
	db *gorm.DB
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

func (r *ProjectRepository) conn(ctx context.Context) *gorm.DB {
	if r.db != nil {
		return r.db.WithContext(ctx)
	}

	return storage.GetDb().WithContext(ctx)
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *projects_models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	return r.conn(ctx).Create(project).Error
}

// GetProjectByID returns nil when the project does not exist.
func (r *ProjectRepository) GetProjectByID(ctx context.Context, projectID uuid.UUID) (*projects_models.Project, error) {
	var project projects_models.Project

	if err := r.conn(ctx).Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) GetProjectsByTeamIDs(
	ctx context.Context,
	teamIDs []uuid.UUID,
) ([]*projects_models.Project, error) {
	projects := make([]*projects_models.Project, 0)
	if len(teamIDs) == 0 {
		return projects, nil
	}

	err := r.conn(ctx).Where("team_id IN ?", teamIDs).Order("name ASC").Find(&projects).Error

	return projects, err
}

func (r *ProjectRepository) GetProjectIDsByTeamID(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	projectIDs := make([]uuid.UUID, 0)

	err := r.conn(ctx).Model(&projects_models.Project{}).Where("team_id = ?", teamID).Pluck("id", &projectIDs).Error

	return projectIDs, err
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, project *projects_models.Project) error {
	project.UpdatedAt = time.Now().UTC()

	return r.conn(ctx).Model(&projects_models.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"due_date":    project.DueDate,
			"color":       project.Color,
			"updated_at":  project.UpdatedAt,
		}).Error
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	return r.conn(ctx).Delete(&projects_models.Project{}, projectID).Error
}
