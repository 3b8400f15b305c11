package audit_logs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zidotask/internal/features/access"
	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
)

const (
	defaultAuditLogsLimit = 100
	maxAuditLogsLimit     = 1000
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository
	gate               *access.Gate
	logger             *slog.Logger
}

// WriteAuditLog never fails the caller: a lost entry is logged and dropped.
func (s *AuditLogService) WriteAuditLog(
	message string,
	accountID *uuid.UUID,
	teamID *uuid.UUID,
	projectID *uuid.UUID,
) {
	auditLog := &AuditLog{
		AccountID: accountID,
		TeamID:    teamID,
		ProjectID: projectID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	err := storage.Run(context.Background(), func(ctx context.Context) error {
		return s.auditLogRepository.Create(ctx, auditLog)
	})
	if err != nil {
		s.logger.Error("failed to create audit log", "message", message, "error", err)
		return
	}
}

// GetAccountAuditLogs returns what the account itself did.
func (s *AuditLogService) GetAccountAuditLogs(
	ctx context.Context,
	account *accounts_models.Account,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	if account == nil {
		return nil, app_errors.NotAuthenticated("account not authenticated")
	}

	limit, offset := normalizePage(request)

	var (
		auditLogs []*AuditLogDTO
		total     int64
	)

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		auditLogs, err = s.auditLogRepository.GetByAccount(ctx, account.ID, limit, offset, request.BeforeDate)
		if err != nil {
			return err
		}

		total, err = s.auditLogRepository.CountByAccount(ctx, account.ID, request.BeforeDate)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get audit logs: %w", err))
	}

	return &GetAuditLogsResponse{
		AuditLogs: auditLogs,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// GetTeamAuditLogs is limited to team owners and admins.
func (s *AuditLogService) GetTeamAuditLogs(
	ctx context.Context,
	teamID uuid.UUID,
	account *accounts_models.Account,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	err := s.gate.Authorize(ctx, account, access_enums.ActionViewAuditLogs, access.TeamResource(teamID))
	if err != nil {
		return nil, err
	}

	limit, offset := normalizePage(request)

	var (
		auditLogs []*AuditLogDTO
		total     int64
	)

	err = storage.Run(ctx, func(ctx context.Context) error {
		var err error
		auditLogs, err = s.auditLogRepository.GetByTeam(ctx, teamID, limit, offset, request.BeforeDate)
		if err != nil {
			return err
		}

		total, err = s.auditLogRepository.CountByTeam(ctx, teamID, request.BeforeDate)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get audit logs: %w", err))
	}

	return &GetAuditLogsResponse{
		AuditLogs: auditLogs,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (s *AuditLogService) DeleteAuditLogsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.auditLogRepository.DeleteOlderThan(ctx, before)
		return err
	})

	return deleted, err
}

func normalizePage(request *GetAuditLogsRequest) (int, int) {
	limit := request.Limit
	if limit <= 0 || limit > maxAuditLogsLimit {
		limit = defaultAuditLogsLimit
	}

	return limit, max(request.Offset, 0)
}
