package accounts_repositories

import (
	"context"
	"errors"
	"time"

	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	// nil outside of a transaction
	db *gorm.DB
}

func (r *AccountRepository) WithTx(tx *gorm.DB) *AccountRepository {
	return &AccountRepository{db: tx}
}

func (r *AccountRepository) conn(ctx context.Context) *gorm.DB {
	if r.db != nil {
		return r.db.WithContext(ctx)
	}

	return storage.GetDb().WithContext(ctx)
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account *accounts_models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	account.Email = accounts_models.NormalizeEmail(account.Email)

	return r.conn(ctx).Create(account).Error
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*accounts_models.Account, error) {
	var account accounts_models.Account

	err := r.conn(ctx).
		Where("email = ?", accounts_models.NormalizeEmail(email)).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, accountID uuid.UUID) (*accounts_models.Account, error) {
	var account accounts_models.Account

	if err := r.conn(ctx).Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, accountID uuid.UUID, hashedPassword string) error {
	return r.conn(ctx).Model(&accounts_models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"hashed_password":        hashedPassword,
			"password_creation_time": time.Now().UTC(),
		}).Error
}

func (r *AccountRepository) UpdateProfile(
	ctx context.Context,
	accountID uuid.UUID,
	displayName string,
	avatarURL *string,
) error {
	return r.conn(ctx).Model(&accounts_models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"display_name": displayName,
			"avatar_url":   avatarURL,
		}).Error
}
