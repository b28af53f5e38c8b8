package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stackkit/auth-starter/internal/config"
	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/repository"
	"github.com/stackkit/auth-starter/internal/session"
)

const verificationTTL = time.Hour

// AuthService is the auth provider: it owns credentials, session tokens and
// verification flows. The rest of the application only ever asks it one
// question: given a token, return {session, user} or nothing.
type AuthService struct {
	userRepo         repository.UserRepository
	sessionRepo      repository.SessionRepository
	accountRepo      repository.AccountRepository
	verificationRepo repository.VerificationRepository
	cfg              *config.Config
}

func NewAuthService(repos *repository.Repositories, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:         repos.User,
		sessionRepo:      repos.Session,
		accountRepo:      repos.Account,
		verificationRepo: repos.Verification,
		cfg:              cfg,
	}
}

type SignUpInput struct {
	Email    string
	Name     *string
	Password string
}

type SignInInput struct {
	Email    string
	Password string
}

// ClientInfo is request metadata recorded on the session row.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type AuthResult struct {
	User    *domain.User
	Session *domain.Session
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput, client ClientInfo) (*AuthResult, error) {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.ErrValidation
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
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

	account := &domain.Account{
		ID:           uuid.New(),
		UserID:       user.ID,
		ProviderID:   domain.ProviderCredential,
		AccountID:    user.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	sess, err := s.createSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: sess}, nil
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput, client ClientInfo) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	account, err := s.accountRepo.GetByUserAndProvider(ctx, user.ID, domain.ProviderCredential)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Deactivated accounts fail the same way as bad credentials.
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.createSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: sess}, nil
}

// SignOut invalidates the session behind the token. Unknown tokens are not an
// error: the outcome the caller asked for already holds.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// ResolveSession answers the provider contract: token in, {session, user} or
// nothing out. Expired sessions are deleted on sight. It deliberately does
// not check IsActive; that re-check belongs to the guard, against the store.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	sess, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, err
	}

	if time.Now().After(sess.ExpiresAt) {
		if err := s.sessionRepo.Delete(ctx, sess.ID); err != nil {
			log.Printf("ERROR [service.AuthService] failed to delete expired session: %v", err)
		}
		return nil, nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, err
	}

	return sess, user, nil
}

func (s *AuthService) createSession(ctx context.Context, user *domain.User, client ClientInfo) (*domain.Session, error) {
	token, err := session.GenerateToken()
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

type verificationPayload struct {
	TokenID string `json:"tokenId"`
	Email   string `json:"email"`
}

// RequestEmailVerification issues a signed verification token and records it
// so it can be consumed exactly once. Delivery (email) is out of scope here;
// the token is returned to the caller.
func (s *AuthService) RequestEmailVerification(ctx context.Context, user *domain.User) (string, error) {
	tokenID := uuid.New().String()
	expiresAt := time.Now().Add(verificationTTL)

	payload, err := json.Marshal(verificationPayload{TokenID: tokenID, Email: user.Email})
	if err != nil {
		return "", err
	}

	verification := &domain.Verification{
		ID:         uuid.New(),
		Identifier: verificationIdentifier(user.ID),
		Value:      payload,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.verificationRepo.Create(ctx, verification); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"jti": tokenID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.AuthSecret))
}

// VerifyEmail consumes a verification token and marks the user verified.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) (*domain.User, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.AuthSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	tokenID, _ := claims["jti"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil || tokenID == "" {
		return nil, domain.ErrTokenInvalid
	}

	verification, err := s.verificationRepo.GetByIdentifier(ctx, verificationIdentifier(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	var payload verificationPayload
	if err := json.Unmarshal(verification.Value, &payload); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if payload.TokenID != tokenID || time.Now().After(verification.ExpiresAt) {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	user.EmailVerified = true
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.verificationRepo.Delete(ctx, verification.ID); err != nil {
		log.Printf("ERROR [service.AuthService] failed to consume verification row: %v", err)
	}

	return user, nil
}

func verificationIdentifier(userID uuid.UUID) string {
	return "email-verification:" + userID.String()
}
