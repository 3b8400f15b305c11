package accounts_services

import (
	"context"
	"fmt"
	"strings"
	"time"

	accounts_dto "zidotask/internal/features/accounts/dto"
	accounts_enums "zidotask/internal/features/accounts/enums"
	accounts_interfaces "zidotask/internal/features/accounts/interfaces"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_repositories "zidotask/internal/features/accounts/repositories"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	accountRepository *accounts_repositories.AccountRepository
	sessionService    *SessionService
	// audit log is never nil, DI always set it
	auditLogWriter accounts_interfaces.AuditLogWriter
}

func (s *AccountService) SetAuditLogWriter(writer accounts_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *AccountService) SignUp(
	ctx context.Context,
	request *accounts_dto.SignUpRequestDTO,
) (*accounts_models.Account, error) {
	email := accounts_models.NormalizeEmail(request.Email)

	if accounts_models.IsPlaceholderEmail(email) {
		return nil, app_errors.Validation("this email domain is reserved for external sign in").
			WithCode("RESERVED_EMAIL_DOMAIN")
	}

	existingAccount, err := s.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existingAccount != nil {
		return nil, app_errors.Validation("account with this email already exists").
			WithCode("EMAIL_ALREADY_REGISTERED")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	hashedPasswordStr := string(hashedPassword)

	displayName := strings.TrimSpace(request.DisplayName)
	if displayName == "" {
		displayName = strings.Split(email, "@")[0]
	}

	account := &accounts_models.Account{
		ID:                   uuid.New(),
		Email:                email,
		DisplayName:          displayName,
		HashedPassword:       &hashedPasswordStr,
		PasswordCreationTime: time.Now().UTC(),
		Status:               accounts_enums.AccountStatusActive,
		CreatedAt:            time.Now().UTC(),
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.accountRepository.CreateAccount(ctx, account)
	})
	if err != nil {
		if storage.IsDuplicateKey(err) {
			return nil, app_errors.Validation("account with this email already exists").
				WithCode("EMAIL_ALREADY_REGISTERED")
		}

		return nil, app_errors.Internal(fmt.Errorf("failed to create account: %w", err))
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Account registered with email: %s", account.Email),
		&account.ID,
		nil,
		nil,
	)

	return account, nil
}

func (s *AccountService) SignIn(
	ctx context.Context,
	request *accounts_dto.SignInRequestDTO,
) (*accounts_dto.SignInResponseDTO, error) {
	account, err := s.GetAccountByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}

	if account == nil {
		return nil, app_errors.NotAuthenticated("account with this email does not exist")
	}

	if !account.IsActive() {
		return nil, app_errors.NotAuthenticated("account is deactivated")
	}

	if !account.HasPassword() {
		return nil, app_errors.NotAuthenticated("this account signs in through an external provider")
	}

	err = bcrypt.CompareHashAndPassword([]byte(*account.HashedPassword), []byte(request.Password))
	if err != nil {
		return nil, app_errors.NotAuthenticated("password is incorrect")
	}

	response, err := s.sessionService.CreateSession(ctx, account)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Account signed in with email: %s", account.Email),
		&account.ID,
		nil,
		nil,
	)

	return response, nil
}

// ChangePassword stores the new password, signs every session of the account
// out and returns a fresh session for the caller.
func (s *AccountService) ChangePassword(
	ctx context.Context,
	account *accounts_models.Account,
	newPassword string,
) (*accounts_dto.SignInResponseDTO, error) {
	storedAccount, err := s.GetAccountByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	if !storedAccount.HasPassword() {
		return nil, app_errors.Validation("account has no password set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to hash new password: %w", err))
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.accountRepository.UpdatePassword(ctx, account.ID, string(hashedPassword))
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to update password: %w", err))
	}

	if err := s.sessionService.SignOutEverywhere(ctx, account.ID); err != nil {
		return nil, err
	}

	updatedAccount, err := s.GetAccountByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	response, err := s.sessionService.CreateSession(ctx, updatedAccount)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog("Password changed", &account.ID, nil, nil)

	return response, nil
}

// ResetPasswordByEmail sets a password from the command line. It also gives
// provider-only accounts a password and signs every session out.
func (s *AccountService) ResetPasswordByEmail(ctx context.Context, email string, newPassword string) error {
	if len(newPassword) < 8 {
		return app_errors.Validation("password must be at least 8 characters long")
	}

	account, err := s.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	if account == nil {
		return app_errors.NotFound("account with this email does not exist")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to hash new password: %w", err))
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.accountRepository.UpdatePassword(ctx, account.ID, string(hashedPassword))
	})
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to update password: %w", err))
	}

	if err := s.sessionService.SignOutEverywhere(ctx, account.ID); err != nil {
		return err
	}

	s.auditLogWriter.WriteAuditLog("Password reset from command line", &account.ID, nil, nil)

	return nil
}

func (s *AccountService) UpdateProfile(
	ctx context.Context,
	account *accounts_models.Account,
	request *accounts_dto.UpdateProfileRequestDTO,
) (*accounts_dto.AccountProfileResponseDTO, error) {
	displayName := strings.TrimSpace(request.DisplayName)
	if displayName == "" {
		return nil, app_errors.Validation("display name is required")
	}

	err := storage.Run(ctx, func(ctx context.Context) error {
		return s.accountRepository.UpdateProfile(ctx, account.ID, displayName, request.AvatarURL)
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to update profile: %w", err))
	}

	updatedAccount, err := s.GetAccountByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return s.GetProfile(updatedAccount), nil
}

// GetAccountByID returns NotFound when the account does not exist.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID uuid.UUID) (*accounts_models.Account, error) {
	var account *accounts_models.Account

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accountRepository.GetAccountByID(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get account: %w", err))
	}

	if account == nil {
		return nil, app_errors.NotFound("account not found")
	}

	return account, nil
}

// GetAccountByEmail returns nil without error when no account uses the email.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (*accounts_models.Account, error) {
	var account *accounts_models.Account

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accountRepository.GetAccountByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get account: %w", err))
	}

	return account, nil
}

func (s *AccountService) GetProfile(account *accounts_models.Account) *accounts_dto.AccountProfileResponseDTO {
	return &accounts_dto.AccountProfileResponseDTO{
		ID:          account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		AvatarURL:   account.AvatarURL,
		IsActive:    account.IsActive(),
		CreatedAt:   account.CreatedAt,
	}
}
