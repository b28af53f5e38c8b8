package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/repository"
)

// NewConnection opens the single GORM connection pool the process uses.
// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey
// so services can surface duplicate emails as a conflict.
func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Account{},
		&domain.Verification{},
		&domain.RateLimit{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Account:      NewAccountRepository(db),
		Verification: NewVerificationRepository(db),
		RateLimit:    NewRateLimitRepository(db),
	}
}
