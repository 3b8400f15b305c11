package invitations

import "github.com/google/uuid"

type AuditLogWriter interface {
	WriteAuditLog(message string, accountID, teamID, projectID *uuid.UUID)
}
