package projects_interfaces

import "github.com/google/uuid"

type AuditLogWriter interface {
	WriteAuditLog(message string, accountID, teamID, projectID *uuid.UUID)
}
