// Package googleclient builds authenticated HTTP clients for Google APIs,
// persisting refreshed tokens through a callback so a later run observes them.
package googleclient

import (
	"context"
	"log"
	"net/http"
	"time"

	"inboxcal/internal/candidate/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback domain.TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[WARN] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

// NewHTTPClient wraps the token in an oauth2 client that forces a refresh
// when a refresh token is available and reports refreshes to onTokenRefresh.
func NewHTTPClient(ctx context.Context, clientID, clientSecret, accessToken, refreshToken string, onTokenRefresh domain.TokenUpdateFunc) *http.Client {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrapped := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}
	return oauth2.NewClient(ctx, wrapped)
}
