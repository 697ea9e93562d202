package usecase

import (
	"context"
	"time"

	authdomain "inboxcal/internal/auth/domain"
	"inboxcal/internal/candidate/domain"

	"golang.org/x/oauth2"
)

// MailProvider lists raw messages from an external mailbox.
type MailProvider interface {
	// Source identifies the provider in candidate records (e.g. "gmail").
	Source() string
	// ListRecent returns up to max messages within the lookback window,
	// most-recent-first or provider-default order. Messages the provider had
	// to drop on per-item fetch failures are reported in skipped so they still
	// show up in sync counts.
	ListRecent(ctx context.Context, accessToken, refreshToken string, max int, window time.Duration, onTokenRefresh domain.TokenUpdateFunc) (messages []domain.InboundMessage, skipped int, err error)
}

// CalendarProvider submits accepted candidates to an external calendar.
type CalendarProvider interface {
	InsertEvent(ctx context.Context, accessToken, refreshToken, calendarID string, payload domain.EventPayload, onTokenRefresh domain.TokenUpdateFunc) (string, error)
}

// CredentialProvider supplies collaborator credentials and persists refreshed
// tokens. Loading happens before any collaborator call in a pipeline run.
type CredentialProvider interface {
	Credentials(ctx context.Context) (*authdomain.CredentialRecord, error)
	PersistToken(token *oauth2.Token) error
}
