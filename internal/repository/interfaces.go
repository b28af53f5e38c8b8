package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stackkit/auth-starter/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListActive(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, providerID string) (*domain.Account, error)
}

type VerificationRepository interface {
	Create(ctx context.Context, verification *domain.Verification) error
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Verification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RateLimitRepository interface {
	// Increment bumps the fixed-window counter for key and returns the count
	// inside the current window. A window that elapsed resets the counter.
	Increment(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Account      AccountRepository
	Verification VerificationRepository
	RateLimit    RateLimitRepository
}
