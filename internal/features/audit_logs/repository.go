package audit_logs

import (
	"context"
	"time"

	"zidotask/internal/storage"

	"github.com/google/uuid"
)

const selectAuditLogsSQL = `
	SELECT
		al.id,
		al.account_id,
		al.team_id,
		al.project_id,
		al.message,
		al.created_at,
		a.email as account_email,
		t.name as team_name,
		p.name as project_name
	FROM audit_logs al
	LEFT JOIN accounts a ON al.account_id = a.id
	LEFT JOIN teams t ON al.team_id = t.id
	LEFT JOIN projects p ON al.project_id = p.id`

type AuditLogRepository struct{}

func (r *AuditLogRepository) Create(ctx context.Context, auditLog *AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	return storage.GetDb().WithContext(ctx).Create(auditLog).Error
}

func (r *AuditLogRepository) GetByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLogDTO, error) {
	return r.query(ctx, "al.account_id = ?", accountID, limit, offset, beforeDate)
}

func (r *AuditLogRepository) GetByTeam(
	ctx context.Context,
	teamID uuid.UUID,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLogDTO, error) {
	return r.query(ctx, "al.team_id = ?", teamID, limit, offset, beforeDate)
}

func (r *AuditLogRepository) CountByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	beforeDate *time.Time,
) (int64, error) {
	return r.count(ctx, "account_id = ?", accountID, beforeDate)
}

func (r *AuditLogRepository) CountByTeam(ctx context.Context, teamID uuid.UUID, beforeDate *time.Time) (int64, error) {
	return r.count(ctx, "team_id = ?", teamID, beforeDate)
}

func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := storage.GetDb().WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&AuditLog{})

	return result.RowsAffected, result.Error
}

func (r *AuditLogRepository) query(
	ctx context.Context,
	condition string,
	id uuid.UUID,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLogDTO, error) {
	var auditLogs = make([]*AuditLogDTO, 0)

	sql := selectAuditLogsSQL + " WHERE " + condition
	args := []any{id}

	if beforeDate != nil {
		sql += " AND al.created_at < ?"
		args = append(args, *beforeDate)
	}

	sql += " ORDER BY al.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	err := storage.GetDb().WithContext(ctx).Raw(sql, args...).Scan(&auditLogs).Error

	return auditLogs, err
}

func (r *AuditLogRepository) count(
	ctx context.Context,
	condition string,
	id uuid.UUID,
	beforeDate *time.Time,
) (int64, error) {
	var count int64
	query := storage.GetDb().WithContext(ctx).Model(&AuditLog{}).Where(condition, id)

	if beforeDate != nil {
		query = query.Where("created_at < ?", *beforeDate)
	}

	err := query.Count(&count).Error
	return count, err
}
