package audit_logs

import (
	"zidotask/internal/features/access"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/identity"
	"zidotask/internal/features/invitations"
	projects_services "zidotask/internal/features/projects/services"
	teams_services "zidotask/internal/features/teams/services"
	"zidotask/internal/util/logger"
)

var auditLogRepository = &AuditLogRepository{}
var auditLogService = &AuditLogService{
	auditLogRepository: auditLogRepository,
	gate:               access.GetGate(),
	logger:             logger.GetLogger(),
}
var auditLogController = &AuditLogController{
	auditLogService: auditLogService,
}

func GetAuditLogService() *AuditLogService {
	return auditLogService
}

func GetAuditLogController() *AuditLogController {
	return auditLogController
}

func SetupDependencies() {
	accounts_services.GetAccountService().SetAuditLogWriter(auditLogService)
	teams_services.GetTeamService().SetAuditLogWriter(auditLogService)
	teams_services.GetMembershipService().SetAuditLogWriter(auditLogService)
	projects_services.GetProjectService().SetAuditLogWriter(auditLogService)
	projects_services.GetMembershipService().SetAuditLogWriter(auditLogService)
	invitations.GetInvitationService().SetAuditLogWriter(auditLogService)
	identity.GetIdentityResolver().SetAuditLogWriter(auditLogService)
}
