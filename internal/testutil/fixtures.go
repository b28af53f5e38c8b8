package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/session"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	name     *string
	password string
	active   bool
	verified bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		active:   true,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = &name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Inactive marks the user soft-deleted
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Verified marks the email verified
func (b *UserBuilder) Verified() *UserBuilder {
	b.verified = true
	return b
}

// Build creates the user and its credential account in the database and
// returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         b.email,
		Name:          b.name,
		EmailVerified: b.verified,
		IsActive:      b.active,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// Select("*") forces zero-valued fields (IsActive=false) into the INSERT;
	// otherwise GORM omits them and the column default flips the user active.
	if err := db.Select("*").Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
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

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return user, b.password
}

// BuildSession creates a session row for the user and returns its raw token
func BuildSession(t *testing.T, db *gorm.DB, user *domain.User, expiresAt time.Time) (*domain.Session, string) {
	t.Helper()

	token, err := session.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate session token: %v", err)
	}

	sess := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(sess).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return sess, token
}

// SessionEnvelope matches the auth API's {user, session} responses
type SessionEnvelope struct {
	User *struct {
		ID            string  `json:"id"`
		Email         string  `json:"email"`
		Name          *string `json:"name"`
		EmailVerified bool    `json:"emailVerified"`
		IsActive      bool    `json:"isActive"`
	} `json:"user"`
	Session *struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		ExpiresAt time.Time `json:"expiresAt"`
	} `json:"session"`
}

// SignIn authenticates via the API and returns the session cookie
func SignIn(t *testing.T, ts *TestServer, email, password string) *http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("failed to marshal sign-in request: %v", err)
	}

	resp, err := http.Post(ts.AuthURL("/sign-in/email"), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to sign in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign in returned status %d", resp.StatusCode)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}

	t.Fatal("sign in response carried no session cookie")
	return nil
}

// SessionCookie wraps a raw token in the session cookie shape
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: session.CookieName, Value: token}
}
