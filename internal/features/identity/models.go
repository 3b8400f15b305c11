package identity

import (
	"time"

	"github.com/google/uuid"
)

// ExternalIdentity links an account to a user of an OAuth provider. The pair
// (provider, provider_user_id) is unique.
type ExternalIdentity struct {
	ID             uuid.UUID `json:"id"             gorm:"column:id"`
	Provider       string    `json:"provider"       gorm:"column:provider"`
	ProviderUserID string    `json:"providerUserId" gorm:"column:provider_user_id"`
	AccountID      uuid.UUID `json:"accountId"      gorm:"column:account_id"`
	Login          string    `json:"login"          gorm:"column:login"`
	AccessToken    string    `json:"-"              gorm:"column:access_token"`
	CreatedAt      time.Time `json:"createdAt"      gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updatedAt"      gorm:"column:updated_at"`
}

func (ExternalIdentity) TableName() string {
	return "external_identities"
}
