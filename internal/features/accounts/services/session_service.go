package accounts_services

import (
	"context"
	"errors"
	"fmt"
	"time"

	accounts_dto "zidotask/internal/features/accounts/dto"
	accounts_models "zidotask/internal/features/accounts/models"
	accounts_repositories "zidotask/internal/features/accounts/repositories"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"
	cache_utils "zidotask/internal/util/cache"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const principalCacheExpiry = 30 * time.Second

// cachedPrincipal is what a session token resolves to. A revoked entry is a
// tombstone written by sign out.
type cachedPrincipal struct {
	Account              accounts_models.Account `json:"account"`
	PasswordCreationTime time.Time               `json:"passwordCreationTime"`
	Session              accounts_models.Session `json:"session"`
	IsRevoked            bool                    `json:"isRevoked"`
}

type SessionService struct {
	accountRepository   *accounts_repositories.AccountRepository
	sessionRepository   *accounts_repositories.SessionRepository
	secretKeyRepository *accounts_repositories.SecretKeyRepository
	principalCache      *cache_utils.CacheUtil[cachedPrincipal]
	sessionTTL          time.Duration
}

func (s *SessionService) CreateSession(
	ctx context.Context,
	account *accounts_models.Account,
) (*accounts_dto.SignInResponseDTO, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get secret key: %w", err))
	}

	now := time.Now().UTC()
	session := &accounts_models.Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.sessionRepository.CreateSession(ctx, session)
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to create session: %w", err))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                  account.ID.String(),
		"sid":                  session.ID.String(),
		"exp":                  session.ExpiresAt.Unix(),
		"iat":                  now.Unix(),
		"passwordCreationTime": account.PasswordCreationTime.Unix(),
	})

	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	return &accounts_dto.SignInResponseDTO{
		AccountID: account.ID,
		Email:     account.Email,
		Token:     tokenString,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// GetPrincipalFromToken resolves a session token to its account. The result
// is cached for a few seconds at most; sign out replaces the cached entry
// before it returns.
func (s *SessionService) GetPrincipalFromToken(
	ctx context.Context,
	token string,
) (*accounts_models.Account, *accounts_models.Session, error) {
	accountID, sessionID, passwordCreationTime, err := s.parseToken(token)
	if err != nil {
		return nil, nil, err
	}

	if cached := s.principalCache.Get(ctx, sessionID.String()); cached != nil {
		if cached.IsRevoked {
			return nil, nil, app_errors.NotAuthenticated("session has been signed out")
		}

		account := cached.Account
		account.PasswordCreationTime = cached.PasswordCreationTime
		session := cached.Session

		if err := validatePrincipal(&account, &session, accountID, passwordCreationTime); err != nil {
			return nil, nil, err
		}

		return &account, &session, nil
	}

	var session *accounts_models.Session
	var account *accounts_models.Account

	err = storage.Run(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepository.GetSessionByID(ctx, sessionID)
		if err != nil || session == nil {
			return err
		}

		account, err = s.accountRepository.GetAccountByID(ctx, session.AccountID)
		return err
	})
	if err != nil {
		return nil, nil, app_errors.Internal(fmt.Errorf("failed to load session: %w", err))
	}

	if session == nil || account == nil {
		return nil, nil, app_errors.NotAuthenticated("session not found")
	}

	if session.RevokedAt != nil {
		return nil, nil, app_errors.NotAuthenticated("session has been signed out")
	}

	if err := validatePrincipal(account, session, accountID, passwordCreationTime); err != nil {
		return nil, nil, err
	}

	// a concurrent sign out may have left a tombstone, which must win
	_, _ = s.principalCache.SetIfAbsent(ctx, sessionID.String(), &cachedPrincipal{
		Account:              *account,
		PasswordCreationTime: account.PasswordCreationTime,
		Session:              *session,
	})

	return account, session, nil
}

// SignOut revokes the session. The cached principal is replaced by a
// tombstone before returning, so the token stops working immediately.
func (s *SessionService) SignOut(ctx context.Context, session *accounts_models.Session) error {
	if session == nil {
		return app_errors.NotAuthenticated("no active session")
	}

	revokedAt := time.Now().UTC()

	err := storage.Run(ctx, func(ctx context.Context) error {
		return s.sessionRepository.RevokeSession(ctx, session.ID, revokedAt)
	})
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to revoke session: %w", err))
	}

	return s.writeTombstone(ctx, session.ID)
}

// SignOutEverywhere revokes all live sessions of the account.
func (s *SessionService) SignOutEverywhere(ctx context.Context, accountID uuid.UUID) error {
	var sessionIDs []uuid.UUID

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		sessionIDs, err = s.sessionRepository.RevokeAccountSessions(ctx, accountID, time.Now().UTC())
		return err
	})
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to revoke sessions: %w", err))
	}

	for _, sessionID := range sessionIDs {
		if err := s.writeTombstone(ctx, sessionID); err != nil {
			return err
		}
	}

	return nil
}

// DeleteStaleSessions removes sessions that expired or were revoked before
// the given moment.
func (s *SessionService) DeleteStaleSessions(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.sessionRepository.DeleteStaleSessions(ctx, before)
		return err
	})

	return deleted, err
}

func (s *SessionService) writeTombstone(ctx context.Context, sessionID uuid.UUID) error {
	err := s.principalCache.Set(ctx, sessionID.String(), &cachedPrincipal{IsRevoked: true})
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to invalidate cached session: %w", err))
	}

	return nil
}

func (s *SessionService) parseToken(token string) (uuid.UUID, uuid.UUID, time.Time, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, app_errors.Internal(
			fmt.Errorf("failed to get secret key: %w", err),
		)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return uuid.Nil, uuid.Nil, time.Time{}, app_errors.NotAuthenticated("session has expired")
		}

		return uuid.Nil, uuid.Nil, time.Time{}, app_errors.NotAuthenticated("invalid token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return uuid.Nil, uuid.Nil, time.Time{}, app_errors.NotAuthenticated("invalid token")
	}

	accountID, err := uuidClaim(claims, "sub")
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, err
	}

	sessionID, err := uuidClaim(claims, "sid")
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, err
	}

	passwordCreationTimeUnix, ok := claims["passwordCreationTime"].(float64)
	if !ok {
		return uuid.Nil, uuid.Nil, time.Time{}, app_errors.NotAuthenticated(
			"invalid token claims: missing password creation time",
		)
	}

	return accountID, sessionID, time.Unix(int64(passwordCreationTimeUnix), 0), nil
}

func uuidClaim(claims jwt.MapClaims, name string) (uuid.UUID, error) {
	raw, ok := claims[name].(string)
	if !ok {
		return uuid.Nil, app_errors.NotAuthenticated("invalid token claims")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, app_errors.NotAuthenticated("invalid token claims")
	}

	return id, nil
}

func validatePrincipal(
	account *accounts_models.Account,
	session *accounts_models.Session,
	tokenAccountID uuid.UUID,
	tokenPasswordCreationTime time.Time,
) error {
	if session.AccountID != tokenAccountID || account.ID != tokenAccountID {
		return app_errors.NotAuthenticated("invalid token claims")
	}

	if !session.IsUsable(time.Now().UTC()) {
		if session.RevokedAt != nil {
			return app_errors.NotAuthenticated("session has been signed out")
		}

		return app_errors.NotAuthenticated("session has expired")
	}

	if !account.IsActive() {
		return app_errors.NotAuthenticated("account is deactivated")
	}

	tokenTimeSeconds := tokenPasswordCreationTime.Truncate(time.Second)
	accountTimeSeconds := account.PasswordCreationTime.Truncate(time.Second)

	if !tokenTimeSeconds.Equal(accountTimeSeconds) {
		return app_errors.NotAuthenticated("password has been changed, please sign in again")
	}

	return nil
}
