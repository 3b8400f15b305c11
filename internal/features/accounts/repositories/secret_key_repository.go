package accounts_repositories

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/storage"

	"gorm.io/gorm"
)

type SecretKeyRepository struct {
	mu     sync.RWMutex
	secret string
}

// GetSecretKey returns the signing secret, generating and storing one on
// first use.
func (r *SecretKeyRepository) GetSecretKey() (string, error) {
	r.mu.RLock()
	secret := r.secret
	r.mu.RUnlock()

	if secret != "" {
		return secret, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.secret != "" {
		return r.secret, nil
	}

	var secretKey accounts_models.SecretKey
	err := storage.GetDb().First(&secretKey).Error
	if err == nil {
		r.secret = secretKey.Secret
		return r.secret, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	secretKey = accounts_models.SecretKey{Secret: hex.EncodeToString(randomBytes)}

	// two instances may race on an empty table; the second insert is ignored
	// and both read back the stored row
	if err := storage.GetDb().Exec(
		"INSERT INTO secret_keys (id, secret) VALUES (1, ?) ON CONFLICT (id) DO NOTHING",
		secretKey.Secret,
	).Error; err != nil {
		return "", err
	}

	if err := storage.GetDb().First(&secretKey).Error; err != nil {
		return "", err
	}

	r.secret = secretKey.Secret
	return r.secret, nil
}
