package accounts_repositories

import (
	"context"
	"errors"
	"time"

	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct{}

func (r *SessionRepository) CreateSession(ctx context.Context, session *accounts_models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	return storage.GetDb().WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) GetSessionByID(ctx context.Context, sessionID uuid.UUID) (*accounts_models.Session, error) {
	var session accounts_models.Session

	if err := storage.GetDb().WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID uuid.UUID, revokedAt time.Time) error {
	return storage.GetDb().WithContext(ctx).
		Model(&accounts_models.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", revokedAt).Error
}

// RevokeAccountSessions revokes every live session of the account and
// returns the ids it revoked.
func (r *SessionRepository) RevokeAccountSessions(
	ctx context.Context,
	accountID uuid.UUID,
	revokedAt time.Time,
) ([]uuid.UUID, error) {
	var sessions []accounts_models.Session

	err := storage.GetDb().WithContext(ctx).
		Model(&sessions).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Update("revoked_at", revokedAt).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}

	return ids, nil
}

// DeleteStaleSessions removes sessions that expired or were revoked before
// the given time.
func (r *SessionRepository) DeleteStaleSessions(ctx context.Context, before time.Time) (int64, error) {
	result := storage.GetDb().WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", before, before).
		Delete(&accounts_models.Session{})

	return result.RowsAffected, result.Error
}
