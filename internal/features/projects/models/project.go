package projects_models

import (
	"time"

	projects_enums "zidotask/internal/features/projects/enums"

	"github.com/google/uuid"
)

const DefaultProjectColor = "indigo"

type Project struct {
	ID          uuid.UUID                    `json:"id"          gorm:"column:id"`
	Name        string                       `json:"name"        gorm:"column:name"`
	Description string                       `json:"description" gorm:"column:description"`
	TeamID      uuid.UUID                    `json:"teamId"      gorm:"column:team_id"`
	Status      projects_enums.ProjectStatus `json:"status"      gorm:"column:status"`
	DueDate     *time.Time                   `json:"dueDate"     gorm:"column:due_date"`
	Color       string                       `json:"color"       gorm:"column:color"`
	CreatedAt   time.Time                    `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time                    `json:"updatedAt"   gorm:"column:updated_at"`

	// Used for caching non-existent projects
	IsNotExists bool `json:"isNotExists,omitempty" gorm:"-"`
}

func (Project) TableName() string {
	return "projects"
}
