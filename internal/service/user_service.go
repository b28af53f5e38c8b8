package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/repository"
)

// UserService is the CRUD facade over the User entity. Registration normally
// happens through AuthService; Create here is the administrative path and
// does not attach credentials.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserInput struct {
	Email string
	Name  *string
}

type UpdateUserInput struct {
	Email *string
	Name  *string
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.ErrValidation
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         input.Email,
		Name:          input.Name,
		EmailVerified: false,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// FindAll returns active users only, newest first.
func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListActive(ctx)
}

// FindOne has no activity filter: the auth guard and admin lookups must see
// inactive accounts too.
func (s *UserService) FindOne(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			return nil, domain.ErrValidation
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = input.Name
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// Remove soft-deletes: the row stays, sessions stay, the guard's isActive
// check is what locks the account out. Removing twice is not an error.
func (s *UserService) Remove(ctx context.Context, id uuid.UUID) error {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}

	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	user.UpdatedAt = time.Now()
	return s.userRepo.Update(ctx, user)
}

// HardDelete removes the row; sessions and accounts cascade in the store.
func (s *UserService) HardDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindOne(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
