package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accounts_enums "zidotask/internal/features/accounts/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_repositories "zidotask/internal/features/accounts/repositories"
	identity_providers "zidotask/internal/features/identity/providers"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const maxResolveAttempts = 3

type resolveResult struct {
	account   *accounts_models.Account
	isCreated bool
}

// IdentityResolver maps a provider profile to exactly one local account.
type IdentityResolver struct {
	identityRepository *ExternalIdentityRepository
	accountRepository  *accounts_repositories.AccountRepository
	auditLogWriter     AuditLogWriter
	logger             *slog.Logger
	singleflight       singleflight.Group
}

func (r *IdentityResolver) SetAuditLogWriter(writer AuditLogWriter) {
	r.auditLogWriter = writer
}

// Resolve returns the account linked to the provider identity, creating both
// when the identity is new. An email that already belongs to an unlinked
// account is never merged silently.
func (r *IdentityResolver) Resolve(
	ctx context.Context,
	provider string,
	profile *identity_providers.Profile,
) (*accounts_models.Account, error) {
	if profile == nil || profile.ProviderUserID == "" || profile.Login == "" {
		return nil, app_errors.Validation("provider profile is incomplete")
	}

	key := provider + ":" + profile.ProviderUserID

	// the flight is shared, one caller going away must not fail the others
	flightCtx := context.WithoutCancel(ctx)

	value, err, _ := r.singleflight.Do(key, func() (any, error) {
		return r.resolveWithRetry(flightCtx, provider, profile)
	})
	if err != nil {
		return nil, err
	}

	result := value.(*resolveResult)
	if !result.account.IsActive() {
		return nil, app_errors.NotAuthenticated("account is deactivated")
	}

	return result.account, nil
}

func (r *IdentityResolver) resolveWithRetry(
	ctx context.Context,
	provider string,
	profile *identity_providers.Profile,
) (*resolveResult, error) {
	var lastErr error

	for attempt := range maxResolveAttempts {
		result, err := r.resolveOnce(ctx, provider, profile)
		if err == nil {
			r.writeAuditLog(provider, profile, result)
			return result, nil
		}

		if !storage.IsDuplicateKey(err) {
			return nil, app_errors.OrInternal(err, "failed to resolve identity")
		}

		r.logger.Warn("identity resolution raced with another login, retrying",
			"provider", provider,
			"providerUserId", profile.ProviderUserID,
			"attempt", attempt+1)

		lastErr = err
	}

	r.logger.Error("identity resolution gave up",
		"provider", provider,
		"providerUserId", profile.ProviderUserID,
		"error", lastErr)

	return nil, app_errors.ConcurrentModification("identity is being linked concurrently, try again")
}

func (r *IdentityResolver) resolveOnce(
	ctx context.Context,
	provider string,
	profile *identity_providers.Profile,
) (*resolveResult, error) {
	ctx, cancel := storage.WithTimeout(ctx)
	defer cancel()

	var result *resolveResult

	err := storage.Transaction(ctx, func(tx *gorm.DB) error {
		identityRepository := r.identityRepository.WithTx(tx)
		accountRepository := r.accountRepository.WithTx(tx)

		identity, err := identityRepository.GetIdentity(ctx, provider, profile.ProviderUserID)
		if err != nil {
			return err
		}

		email := profileEmail(provider, profile)

		if identity == nil {
			existingAccount, err := accountRepository.GetAccountByEmail(ctx, email)
			if err != nil {
				return err
			}

			if existingAccount != nil {
				// a concurrent first login may have committed since the lookup
				identity, err = identityRepository.GetIdentity(ctx, provider, profile.ProviderUserID)
				if err != nil {
					return err
				}

				if identity == nil {
					return app_errors.IdentityLink("account with this email already exists").
						WithCode("EMAIL_ALREADY_REGISTERED")
				}
			}
		}

		if identity != nil {
			account, err := r.refreshLinkedAccount(ctx, identityRepository, accountRepository, identity, profile)
			if err != nil {
				return err
			}

			result = &resolveResult{account: account}
			return nil
		}

		now := time.Now().UTC()
		account := &accounts_models.Account{
			ID:                   uuid.New(),
			Email:                email,
			DisplayName:          profileDisplayName(profile),
			AvatarURL:            profileAvatarURL(profile),
			PasswordCreationTime: now,
			Status:               accounts_enums.AccountStatusActive,
			CreatedAt:            now,
		}

		if err := accountRepository.CreateAccount(ctx, account); err != nil {
			return err
		}

		err = identityRepository.CreateIdentity(ctx, &ExternalIdentity{
			Provider:       provider,
			ProviderUserID: profile.ProviderUserID,
			AccountID:      account.ID,
			Login:          profile.Login,
			AccessToken:    profile.AccessToken,
		})
		if err != nil {
			return err
		}

		result = &resolveResult{account: account, isCreated: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *IdentityResolver) refreshLinkedAccount(
	ctx context.Context,
	identityRepository *ExternalIdentityRepository,
	accountRepository *accounts_repositories.AccountRepository,
	identity *ExternalIdentity,
	profile *identity_providers.Profile,
) (*accounts_models.Account, error) {
	if err := identityRepository.UpdateIdentity(ctx, identity.ID, profile.Login, profile.AccessToken); err != nil {
		return nil, err
	}

	account, err := accountRepository.GetAccountByID(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}

	if account == nil {
		return nil, app_errors.Internal(errors.New("identity points to a missing account"))
	}

	displayName := account.DisplayName
	if name := strings.TrimSpace(profile.DisplayName); name != "" {
		displayName = name
	}

	avatarURL := account.AvatarURL
	if supplied := profileAvatarURL(profile); supplied != nil {
		avatarURL = supplied
	}

	if displayName != account.DisplayName || !sameString(avatarURL, account.AvatarURL) {
		if err := accountRepository.UpdateProfile(ctx, account.ID, displayName, avatarURL); err != nil {
			return nil, err
		}

		account.DisplayName = displayName
		account.AvatarURL = avatarURL
	}

	return account, nil
}

func (r *IdentityResolver) writeAuditLog(
	provider string,
	profile *identity_providers.Profile,
	result *resolveResult,
) {
	message := fmt.Sprintf("Account signed in with %s identity: %s", provider, profile.Login)
	if result.isCreated {
		message = fmt.Sprintf("Account created from %s identity: %s", provider, profile.Login)
	}

	r.auditLogWriter.WriteAuditLog(message, &result.account.ID, nil, nil)
}

func profileEmail(provider string, profile *identity_providers.Profile) string {
	if email := accounts_models.NormalizeEmail(profile.Email); email != "" {
		return email
	}

	return accounts_models.PlaceholderEmail(profile.Login, provider)
}

func profileDisplayName(profile *identity_providers.Profile) string {
	if name := strings.TrimSpace(profile.DisplayName); name != "" {
		return name
	}

	return profile.Login
}

func profileAvatarURL(profile *identity_providers.Profile) *string {
	avatarURL := strings.TrimSpace(profile.AvatarURL)
	if avatarURL == "" {
		return nil
	}

	return &avatarURL
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
