package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackkit/auth-starter/internal/domain"
)

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *verificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, verification *domain.Verification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}

// GetByIdentifier returns the newest pending row for the identifier;
// re-requesting a verification supersedes older rows.
func (r *verificationRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Verification, error) {
	var verification domain.Verification
	err := r.db.WithContext(ctx).
		Where("identifier = ?", identifier).
		Order("created_at DESC").
		First(&verification).Error
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Verification{}, "id = ?", id).Error
}
