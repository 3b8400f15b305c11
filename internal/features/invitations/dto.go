package invitations

import (
	"time"

	access_enums "zidotask/internal/features/access/enums"
	"zidotask/internal/features/memberships"

	"github.com/google/uuid"
)

type CreateInvitationRequestDTO struct {
	Email string                `json:"email" binding:"required,email"`
	Role  access_enums.TeamRole `json:"role"  binding:"required"`
}

// CreateInvitationResponseDTO is the only place the raw token is ever
// returned.
type CreateInvitationResponseDTO struct {
	Invitation     InvitationResponseDTO `json:"invitation"`
	Token          string                `json:"token"`
	InvitationLink string                `json:"invitationLink"`
}

type InvitationTokenRequestDTO struct {
	Token string `json:"token" binding:"required"`
}

type InvitationResponseDTO struct {
	ID          uuid.UUID             `json:"id"`
	TeamID      uuid.UUID             `json:"teamId"`
	Email       string                `json:"email"`
	Role        access_enums.TeamRole `json:"role"`
	InvitedBy   uuid.UUID             `json:"invitedBy"`
	TokenPrefix string                `json:"tokenPrefix"`
	Status      InvitationStatus      `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
	ExpiresAt   time.Time             `json:"expiresAt"`
	RespondedAt *time.Time            `json:"respondedAt"`
}

type ListInvitationsResponseDTO struct {
	Invitations []InvitationResponseDTO `json:"invitations"`
}

type InvitationPreviewResponseDTO struct {
	TeamID    uuid.UUID             `json:"teamId"`
	TeamName  string                `json:"teamName"`
	Email     string                `json:"email"`
	Role      access_enums.TeamRole `json:"role"`
	Status    InvitationStatus      `json:"status"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

type AcceptInvitationResponseDTO struct {
	TeamID     uuid.UUID                   `json:"teamId"`
	Membership *memberships.TeamMembership `json:"membership"`
}
