package invitations

import (
	"context"
	"errors"
	"time"

	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvitationRepository struct {
	// nil outside of a transaction
	db *gorm.DB
}

func (r *InvitationRepository) WithTx(tx *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: tx}
}

func (r *InvitationRepository) conn(ctx context.Context) *gorm.DB {
	if r.db != nil {
		return r.db.WithContext(ctx)
	}

	return storage.GetDb().WithContext(ctx)
}

func (r *InvitationRepository) CreateInvitation(ctx context.Context, invitation *TeamInvitation) error {
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}

	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}

	return r.conn(ctx).Create(invitation).Error
}

func (r *InvitationRepository) GetInvitationByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*TeamInvitation, error) {
	return r.getInvitationByTokenHash(r.conn(ctx), tokenHash)
}

// GetInvitationByTokenHashForUpdate locks the row until the surrounding
// transaction ends.
func (r *InvitationRepository) GetInvitationByTokenHashForUpdate(
	ctx context.Context,
	tokenHash string,
) (*TeamInvitation, error) {
	return r.getInvitationByTokenHash(r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tokenHash)
}

// LockTeam locks the team row until the surrounding transaction ends.
func (r *InvitationRepository) LockTeam(ctx context.Context, teamID uuid.UUID) error {
	var ids []uuid.UUID

	err := r.conn(ctx).
		Table("teams").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", teamID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		return app_errors.NotFound("team not found")
	}

	return nil
}

func (r *InvitationRepository) GetPendingInvitation(
	ctx context.Context,
	teamID uuid.UUID,
	email string,
	now time.Time,
) (*TeamInvitation, error) {
	var invitation TeamInvitation

	err := r.conn(ctx).
		Where("team_id = ? AND email = ? AND status = ? AND expires_at > ?",
			teamID, email, InvitationStatusPending, now).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &invitation, nil
}

func (r *InvitationRepository) GetTeamInvitations(ctx context.Context, teamID uuid.UUID) ([]*TeamInvitation, error) {
	var invitations []*TeamInvitation

	err := r.conn(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&invitations).Error

	return invitations, err
}

// MarkResponded moves a pending invitation into a terminal status. It
// reports false when the invitation was no longer pending.
func (r *InvitationRepository) MarkResponded(
	ctx context.Context,
	invitationID uuid.UUID,
	status InvitationStatus,
	respondedBy uuid.UUID,
	respondedAt time.Time,
) (bool, error) {
	result := r.conn(ctx).
		Model(&TeamInvitation{}).
		Where("id = ? AND status = ?", invitationID, InvitationStatusPending).
		Updates(map[string]any{
			"status":       status,
			"responded_by": respondedBy,
			"responded_at": respondedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// DeleteInvitationsOlderThan removes answered or expired invitations that
// expired before the given time.
func (r *InvitationRepository) DeleteInvitationsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.conn(ctx).
		Where("expires_at < ?", before).
		Delete(&TeamInvitation{})

	return result.RowsAffected, result.Error
}

func (r *InvitationRepository) getInvitationByTokenHash(db *gorm.DB, tokenHash string) (*TeamInvitation, error) {
	var invitation TeamInvitation

	if err := db.Where("token_hash = ?", tokenHash).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &invitation, nil
}
