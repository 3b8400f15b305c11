package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"zidotask/internal/config"
	accounts_services "zidotask/internal/features/accounts/services"
	"zidotask/internal/features/audit_logs"
	"zidotask/internal/features/invitations"
)

const (
	retentionCleanupInterval = 10 * time.Minute

	// answered and expired invitations stay visible in team listings this long
	invitationRetention = 30 * 24 * time.Hour
	auditLogRetention   = 365 * 24 * time.Hour
)

type RetentionBackgroundService struct {
	sessionService    *accounts_services.SessionService
	invitationService *invitations.InvitationService
	auditLogService   *audit_logs.AuditLogService
	logger            *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (s *RetentionBackgroundService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("Starting retention cleanup worker",
		slog.Duration("interval", retentionCleanupInterval))

	s.wg.Add(1)
	go s.retentionWorker()
}

// StopWorkers cancels the worker and waits for the current pass to finish.
func (s *RetentionBackgroundService) StopWorkers() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
}

func (s *RetentionBackgroundService) ExecuteAllTasksForTest() error {
	return s.enforceRetention(context.Background(), time.Now().UTC())
}

func (s *RetentionBackgroundService) retentionWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(retentionCleanupInterval)
	defer ticker.Stop()

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Retention cleanup worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Retention cleanup worker shutting down")
			return

		case <-ticker.C:
			if err := s.enforceRetention(s.ctx, time.Now().UTC()); err != nil {
				s.logger.Error("Error during retention cleanup", slog.String("error", err.Error()))
			}
		}
	}
}

// enforceRetention runs every purge even when an earlier one fails.
func (s *RetentionBackgroundService) enforceRetention(ctx context.Context, now time.Time) error {
	var failed int

	deletedSessions, err := s.sessionService.DeleteStaleSessions(ctx, now)
	if err != nil {
		failed++
		s.logger.Error("Failed to delete stale sessions", slog.String("error", err.Error()))
	}

	deletedInvitations, err := s.invitationService.DeleteExpiredInvitations(ctx, now.Add(-invitationRetention))
	if err != nil {
		failed++
		s.logger.Error("Failed to delete expired invitations", slog.String("error", err.Error()))
	}

	deletedAuditLogs, err := s.auditLogService.DeleteAuditLogsOlderThan(ctx, now.Add(-auditLogRetention))
	if err != nil {
		failed++
		s.logger.Error("Failed to delete old audit logs", slog.String("error", err.Error()))
	}

	s.logger.Info("Retention cleanup completed",
		slog.Int64("deletedSessions", deletedSessions),
		slog.Int64("deletedInvitations", deletedInvitations),
		slog.Int64("deletedAuditLogs", deletedAuditLogs))

	if failed > 0 {
		return fmt.Errorf("retention cleanup failed for %d of 3 tasks", failed)
	}

	return nil
}
