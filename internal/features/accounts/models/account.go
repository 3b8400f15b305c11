package accounts_models

import (
	"strings"
	"time"

	accounts_enums "zidotask/internal/features/accounts/enums"

	"github.com/google/uuid"
)

type Account struct {
	ID                   uuid.UUID                    `json:"id"          gorm:"column:id"`
	Email                string                       `json:"email"       gorm:"column:email"`
	DisplayName          string                       `json:"displayName" gorm:"column:display_name"`
	AvatarURL            *string                      `json:"avatarUrl"   gorm:"column:avatar_url"`
	HashedPassword       *string                      `json:"-"           gorm:"column:hashed_password"`
	PasswordCreationTime time.Time                    `json:"-"           gorm:"column:password_creation_time"`
	Status               accounts_enums.AccountStatus `json:"status"      gorm:"column:status"`
	CreatedAt            time.Time                    `json:"createdAt"   gorm:"column:created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) IsActive() bool {
	return a.Status == accounts_enums.AccountStatusActive
}

func (a *Account) HasPassword() bool {
	return a.HashedPassword != nil && *a.HashedPassword != ""
}

// HasEmail compares emails case-insensitively.
func (a *Account) HasEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Email), strings.TrimSpace(email))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// placeholderEmailSuffix marks the synthetic addresses given to external
// identities that did not share an email. Local sign-up cannot claim them.
const placeholderEmailSuffix = ".user"

func PlaceholderEmail(login, provider string) string {
	return NormalizeEmail(login + "@" + provider + placeholderEmailSuffix)
}

func IsPlaceholderEmail(email string) bool {
	_, domain, found := strings.Cut(NormalizeEmail(email), "@")

	return found && strings.HasSuffix(domain, placeholderEmailSuffix)
}
