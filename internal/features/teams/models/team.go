package teams_models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description string    `json:"description" gorm:"column:description"`
	AvatarURL   *string   `json:"avatarUrl"   gorm:"column:avatar_url"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   gorm:"column:updated_at"`

	// marks a cached miss
	IsNotExists bool `json:"isNotExists,omitempty" gorm:"-"`
}

func (Team) TableName() string {
	return "teams"
}
