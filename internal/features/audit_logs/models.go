package audit_logs

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog rows outlive the accounts, teams and projects they mention, so the
// references are plain columns.
type AuditLog struct {
	ID        uuid.UUID  `json:"id"        gorm:"column:id"`
	AccountID *uuid.UUID `json:"accountId" gorm:"column:account_id"`
	TeamID    *uuid.UUID `json:"teamId"    gorm:"column:team_id"`
	ProjectID *uuid.UUID `json:"projectId" gorm:"column:project_id"`
	Message   string     `json:"message"   gorm:"column:message"`
	CreatedAt time.Time  `json:"createdAt" gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
