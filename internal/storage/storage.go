package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"sync"
	"time"

	"zidotask/internal/config"
	"zidotask/internal/util/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const (
	DefaultQueryTimeout = 5 * time.Second
	maxRetryAttempts    = 3
	retryBaseDelay      = 100 * time.Millisecond
)

var ErrStoreUnavailable = errors.New("persistent store is unavailable")

var (
	db   *gorm.DB
	once sync.Once
	log  = logger.GetLogger()
)

func GetDb() *gorm.DB {
	once.Do(func() {
		env := config.GetEnv()

		gormLogLevel := gorm_logger.Warn
		if env.IsTesting {
			gormLogLevel = gorm_logger.Error
		}

		database, err := gorm.Open(postgres.Open(env.DatabaseDsn), &gorm.Config{
			// duplicate keys surface as gorm.ErrDuplicatedKey
			TranslateError: true,
			Logger:         gorm_logger.Default.LogMode(gormLogLevel),
		})
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			panic(err)
		}

		sqlDb, err := database.DB()
		if err != nil {
			panic(err)
		}

		sqlDb.SetMaxOpenConns(50)
		sqlDb.SetMaxIdleConns(10)
		sqlDb.SetConnMaxLifetime(30 * time.Minute)

		db = database
	})

	return db
}

// WithTimeout bounds a single store operation. Callers always defer the cancel.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithTimeout(ctx, DefaultQueryTimeout)
}

// WithRetry runs fn and retries it while the store is unreachable. Any other
// error is returned as is on the first attempt.
func WithRetry(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := range maxRetryAttempts {
		lastErr = fn()
		if lastErr == nil || !IsConnectionError(lastErr) {
			return lastErr
		}

		log.Warn("Store operation failed on connection error, retrying",
			"attempt", attempt+1,
			"error", lastErr)

		select {
		case <-ctx.Done():
			return errors.Join(ErrStoreUnavailable, ctx.Err())
		case <-time.After(retryBaseDelay * time.Duration(1<<attempt)):
		}
	}

	return errors.Join(ErrStoreUnavailable, lastErr)
}

// Run bounds a store call with the default timeout and retries it while the
// store is unreachable.
func Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	return WithRetry(ctx, func() error {
		return fn(ctx)
	})
}

// Transaction runs fn inside a transaction bound to ctx, retrying when the
// store cannot be reached before the transaction starts doing work.
func Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return WithRetry(ctx, func() error {
		return GetDb().WithContext(ctx).Transaction(fn)
	})
}

func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
