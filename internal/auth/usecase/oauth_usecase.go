package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inboxcal/internal/auth/domain"
	"inboxcal/internal/auth/repository"
	"inboxcal/pkg/config"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested from Google: read mail, write calendar events.
var oauthScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.events",
}

// AuthUsecase owns the Google OAuth flow and the singleton credential record.
type AuthUsecase interface {
	// AuthURL builds the consent-screen redirect URL with a fresh state nonce.
	AuthURL() (url string, state string)
	// HandleCallback exchanges the authorization code and persists the
	// resulting credential record, overwriting any previous one.
	HandleCallback(ctx context.Context, code string) error
	// Credentials loads the stored record, returning domain.ErrNotConnected
	// when the user has never authorized (or storage is empty).
	Credentials(ctx context.Context) (*domain.CredentialRecord, error)
	// PersistToken saves a refreshed token immediately so a subsequent run
	// observes it. Used as the refresh callback on collaborator clients.
	PersistToken(token *oauth2.Token) error
}

type authUsecase struct {
	creds  repository.CredentialRepository
	config *oauth2.Config
}

// NewAuthUsecase creates the OAuth usecase from app configuration.
func NewAuthUsecase(creds repository.CredentialRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		creds: creds,
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       oauthScopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (u *authUsecase) AuthURL() (string, string) {
	state := uuid.New().String()
	url := u.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return url, state
}

func (u *authUsecase) HandleCallback(ctx context.Context, code string) error {
	token, err := u.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return u.saveToken(token)
}

func (u *authUsecase) Credentials(ctx context.Context) (*domain.CredentialRecord, error) {
	record, err := u.creds.Load()
	if err != nil {
		return nil, err
	}
	if record == nil || record.AccessToken == "" {
		return nil, domain.ErrNotConnected
	}
	return record, nil
}

func (u *authUsecase) PersistToken(token *oauth2.Token) error {
	// Keep the refresh token from the previous record when Google omits it
	// from the refresh response.
	if token.RefreshToken == "" {
		if prev, err := u.creds.Load(); err == nil && prev != nil {
			token.RefreshToken = prev.RefreshToken
		}
	}
	return u.saveToken(token)
}

func (u *authUsecase) saveToken(token *oauth2.Token) error {
	record := &domain.CredentialRecord{
		AccessToken:   token.AccessToken,
		RefreshToken:  token.RefreshToken,
		TokenEndpoint: u.config.Endpoint.TokenURL,
		ClientID:      u.config.ClientID,
		ClientSecret:  u.config.ClientSecret,
		Scopes:        strings.Join(u.config.Scopes, " "),
		Expiry:        token.Expiry,
		UpdatedAt:     time.Now(),
	}
	return u.creds.Save(record)
}
