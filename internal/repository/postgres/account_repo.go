package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackkit/auth-starter/internal/domain"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, providerID string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		First(&account, "user_id = ? AND provider_id = ?", userID, providerID).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}
