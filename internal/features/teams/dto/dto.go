package teams_dto

import (
	"time"

	access_enums "zidotask/internal/features/access/enums"
	"zidotask/internal/features/memberships"

	"github.com/google/uuid"
)

// Team DTOs
type CreateTeamRequestDTO struct {
	Name        string  `json:"name"        binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"max=2000"`
	AvatarURL   *string `json:"avatarUrl"   binding:"omitempty,url"`
}

type UpdateTeamRequestDTO struct {
	Name        string  `json:"name"        binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"max=2000"`
	AvatarURL   *string `json:"avatarUrl"   binding:"omitempty,url"`
}

type TeamResponseDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AvatarURL   *string   `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// caller's role in this team
	Role *access_enums.TeamRole `json:"role,omitempty"`
}

type ListTeamsResponseDTO struct {
	Teams []TeamResponseDTO `json:"teams"`
}

// Membership DTOs
type AddMemberRequestDTO struct {
	Email string                `json:"email" binding:"required,email"`
	Role  access_enums.TeamRole `json:"role"  binding:"required"`
}

type ChangeMemberRoleRequestDTO struct {
	Role access_enums.TeamRole `json:"role" binding:"required"`
}

type TransferOwnershipRequestDTO struct {
	NewOwnerEmail string `json:"newOwnerEmail" binding:"required,email"`
}

type GetMembersResponseDTO struct {
	Members []*memberships.TeamMember `json:"members"`
}
