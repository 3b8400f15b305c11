package invitations

import (
	"time"

	access_enums "zidotask/internal/features/access/enums"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	// never stored, derived from expires_at
	InvitationStatusExpired InvitationStatus = "expired"
)

type TeamInvitation struct {
	ID          uuid.UUID             `json:"id"          gorm:"column:id"`
	TeamID      uuid.UUID             `json:"teamId"      gorm:"column:team_id"`
	Email       string                `json:"email"       gorm:"column:email"`
	Role        access_enums.TeamRole `json:"role"        gorm:"column:role"`
	InvitedBy   uuid.UUID             `json:"invitedBy"   gorm:"column:invited_by"`
	TokenHash   string                `json:"-"           gorm:"column:token_hash"`
	TokenPrefix string                `json:"tokenPrefix" gorm:"column:token_prefix"`
	Status      InvitationStatus      `json:"status"      gorm:"column:status"`
	CreatedAt   time.Time             `json:"createdAt"   gorm:"column:created_at"`
	ExpiresAt   time.Time             `json:"expiresAt"   gorm:"column:expires_at"`
	RespondedAt *time.Time            `json:"respondedAt" gorm:"column:responded_at"`
	RespondedBy *uuid.UUID            `json:"respondedBy" gorm:"column:responded_by"`
}

func (TeamInvitation) TableName() string {
	return "team_invitations"
}

func (i *TeamInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// EffectiveStatus reports a pending invitation past its expiry as expired.
func (i *TeamInvitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationStatusPending && i.IsExpired(now) {
		return InvitationStatusExpired
	}

	return i.Status
}
