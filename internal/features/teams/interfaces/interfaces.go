package teams_interfaces

import (
	"context"

	"github.com/google/uuid"
)

type AuditLogWriter interface {
	WriteAuditLog(message string, accountID, teamID, projectID *uuid.UUID)
}

type TeamDeletionListener interface {
	OnBeforeTeamDeletion(ctx context.Context, teamID uuid.UUID) error
}
