package projects_dto

import (
	"time"

	access_enums "zidotask/internal/features/access/enums"
	"zidotask/internal/features/memberships"
	projects_enums "zidotask/internal/features/projects/enums"

	"github.com/google/uuid"
)

// Project DTOs
type CreateProjectRequestDTO struct {
	Name        string     `json:"name"        binding:"required,min=1,max=255"`
	Description string     `json:"description" binding:"max=2000"`
	DueDate     *time.Time `json:"dueDate"`
	Color       string     `json:"color"       binding:"max=32"`
}

type UpdateProjectRequestDTO struct {
	Name        string                       `json:"name"        binding:"required,min=1,max=255"`
	Description string                       `json:"description" binding:"max=2000"`
	Status      projects_enums.ProjectStatus `json:"status"      binding:"required"`
	DueDate     *time.Time                   `json:"dueDate"`
	Color       string                       `json:"color"       binding:"max=32"`
}

type ProjectResponseDTO struct {
	ID          uuid.UUID                    `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	TeamID      uuid.UUID                    `json:"teamId"`
	Status      projects_enums.ProjectStatus `json:"status"`
	DueDate     *time.Time                   `json:"dueDate"`
	Color       string                       `json:"color"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`

	// caller's effective role in this project
	Role *access_enums.ProjectRole `json:"role,omitempty"`
}

type ListProjectsResponseDTO struct {
	Projects []ProjectResponseDTO `json:"projects"`
}

// Membership DTOs
type AddMemberRequestDTO struct {
	Email string                   `json:"email" binding:"required,email"`
	Role  access_enums.ProjectRole `json:"role"  binding:"required"`
}

type ChangeMemberRoleRequestDTO struct {
	Role access_enums.ProjectRole `json:"role" binding:"required"`
}

type GetMembersResponseDTO struct {
	Members []*memberships.ProjectMember `json:"members"`
}
