package memberships

import (
	"time"

	access_enums "zidotask/internal/features/access/enums"

	"github.com/google/uuid"
)

type TeamMembership struct {
	ID        uuid.UUID             `json:"id"        gorm:"column:id"`
	TeamID    uuid.UUID             `json:"teamId"    gorm:"column:team_id"`
	AccountID uuid.UUID             `json:"accountId" gorm:"column:account_id"`
	Role      access_enums.TeamRole `json:"role"      gorm:"column:role"`
	JoinedAt  time.Time             `json:"joinedAt"  gorm:"column:joined_at"`
	InvitedBy *uuid.UUID            `json:"invitedBy" gorm:"column:invited_by"`
	Version   int64                 `json:"version"   gorm:"column:version"`
}

func (TeamMembership) TableName() string {
	return "team_memberships"
}

type ProjectMembership struct {
	ID        uuid.UUID                `json:"id"        gorm:"column:id"`
	ProjectID uuid.UUID                `json:"projectId" gorm:"column:project_id"`
	AccountID uuid.UUID                `json:"accountId" gorm:"column:account_id"`
	Role      access_enums.ProjectRole `json:"role"      gorm:"column:role"`
	JoinedAt  time.Time                `json:"joinedAt"  gorm:"column:joined_at"`
	Version   int64                    `json:"version"   gorm:"column:version"`
}

func (ProjectMembership) TableName() string {
	return "project_memberships"
}

// TeamMember is a membership joined with the account it belongs to.
type TeamMember struct {
	MembershipID uuid.UUID             `json:"membershipId" gorm:"column:membership_id"`
	AccountID    uuid.UUID             `json:"accountId"    gorm:"column:account_id"`
	Email        string                `json:"email"        gorm:"column:email"`
	DisplayName  string                `json:"displayName"  gorm:"column:display_name"`
	AvatarURL    *string               `json:"avatarUrl"    gorm:"column:avatar_url"`
	Role         access_enums.TeamRole `json:"role"         gorm:"column:role"`
	JoinedAt     time.Time             `json:"joinedAt"     gorm:"column:joined_at"`
	InvitedBy    *uuid.UUID            `json:"invitedBy"    gorm:"column:invited_by"`
}

type ProjectMember struct {
	MembershipID uuid.UUID                `json:"membershipId" gorm:"column:membership_id"`
	AccountID    uuid.UUID                `json:"accountId"    gorm:"column:account_id"`
	Email        string                   `json:"email"        gorm:"column:email"`
	DisplayName  string                   `json:"displayName"  gorm:"column:display_name"`
	AvatarURL    *string                  `json:"avatarUrl"    gorm:"column:avatar_url"`
	Role         access_enums.ProjectRole `json:"role"         gorm:"column:role"`
	JoinedAt     time.Time                `json:"joinedAt"     gorm:"column:joined_at"`
}
