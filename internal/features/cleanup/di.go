package cleanup

import (
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/audit_logs"
	"zidotask/internal/features/invitations"
	"zidotask/internal/util/logger"
)

var retentionBackgroundService = &RetentionBackgroundService{
	sessionService:    accounts_services.GetSessionService(),
	invitationService: invitations.GetInvitationService(),
	auditLogService:   audit_logs.GetAuditLogService(),
	logger:            logger.GetLogger(),
}

func GetRetentionBackgroundService() *RetentionBackgroundService {
	return retentionBackgroundService
}
