package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          *string   `json:"name,omitempty"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	EmailVerified bool      `json:"emailVerified" gorm:"not null;default:false"`
	IsActive      bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProviderCredential is the provider id for password-based accounts.
const ProviderCredential = "credential"

type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	User         User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ProviderID   string    `json:"providerId" gorm:"not null;uniqueIndex:idx_accounts_provider_account"`
	AccountID    string    `json:"accountId" gorm:"not null;uniqueIndex:idx_accounts_provider_account"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Verification holds pending verification payloads (e.g. email verification)
// keyed by an opaque identifier. Rows are consumed on use.
type Verification struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Identifier string         `json:"identifier" gorm:"index;not null"`
	Value      datatypes.JSON `json:"-" gorm:"not null"`
	ExpiresAt  time.Time      `json:"expiresAt" gorm:"not null"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// RateLimit is a fixed-window counter row, keyed by caller identity.
type RateLimit struct {
	Key         string    `gorm:"primary_key;size:255"`
	Count       int64     `gorm:"not null"`
	LastRequest time.Time `gorm:"not null"`
}
