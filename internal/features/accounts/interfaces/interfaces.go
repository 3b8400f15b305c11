package accounts_interfaces

import (
	"github.com/google/uuid"
)

type AuditLogWriter interface {
	WriteAuditLog(message string, accountID *uuid.UUID, teamID *uuid.UUID, projectID *uuid.UUID)
}
