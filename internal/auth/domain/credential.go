package domain

import (
	"errors"
	"time"
)

// ErrNotConnected is surfaced when no Google credentials are stored or the
// stored token can no longer be refreshed. The caller must redirect the user
// to re-authorize; every other collaborator failure is skippable.
var ErrNotConnected = errors.New("google account not connected")

// CredentialRecord is the singleton OAuth credential row. Exactly one record
// exists and it is overwritten on every refresh or re-auth. Token material is
// encrypted at rest by the repository.
type CredentialRecord struct {
	ID            uint      `gorm:"primaryKey"`
	AccessToken   string    `gorm:"not null"`
	RefreshToken  string
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
	Scopes        string
	Expiry        time.Time
	UpdatedAt     time.Time
}

// SingletonID is the fixed primary key of the one credential row.
const SingletonID uint = 1
