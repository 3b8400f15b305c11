package accounts_models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID  `json:"id"        gorm:"column:id"`
	AccountID uuid.UUID  `json:"accountId" gorm:"column:account_id"`
	CreatedAt time.Time  `json:"createdAt" gorm:"column:created_at"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"column:expires_at"`
	RevokedAt *time.Time `json:"revokedAt" gorm:"column:revoked_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsUsable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
