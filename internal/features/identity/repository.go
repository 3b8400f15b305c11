package identity

import (
	"context"
	"errors"
	"time"

	"zidotask/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExternalIdentityRepository struct {
	// nil outside of a transaction
	db *gorm.DB
}

func (r *ExternalIdentityRepository) WithTx(tx *gorm.DB) *ExternalIdentityRepository {
	return &ExternalIdentityRepository{db: tx}
}

func (r *ExternalIdentityRepository) conn(ctx context.Context) *gorm.DB {
	if r.db != nil {
		return r.db.WithContext(ctx)
	}

	return storage.GetDb().WithContext(ctx)
}

func (r *ExternalIdentityRepository) GetIdentity(
	ctx context.Context,
	provider string,
	providerUserID string,
) (*ExternalIdentity, error) {
	var identity ExternalIdentity

	err := r.conn(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &identity, nil
}

func (r *ExternalIdentityRepository) GetAccountIdentities(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*ExternalIdentity, error) {
	var identities []*ExternalIdentity

	err := r.conn(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&identities).Error

	return identities, err
}

func (r *ExternalIdentityRepository) CreateIdentity(ctx context.Context, identity *ExternalIdentity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	now := time.Now().UTC()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	return r.conn(ctx).Create(identity).Error
}

// UpdateIdentity refreshes what the provider may change between logins.
func (r *ExternalIdentityRepository) UpdateIdentity(
	ctx context.Context,
	identityID uuid.UUID,
	login string,
	accessToken string,
) error {
	return r.conn(ctx).Model(&ExternalIdentity{}).
		Where("id = ?", identityID).
		Updates(map[string]any{
			"login":        login,
			"access_token": accessToken,
			"updated_at":   time.Now().UTC(),
		}).Error
}
