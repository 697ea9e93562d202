package usecase

import (
	"context"
	"time"

	authdomain "inboxcal/internal/auth/domain"
	"inboxcal/internal/candidate/domain"
	"inboxcal/pkg/ai"

	"golang.org/x/oauth2"
)

type fakeRepo struct {
	upsertFn    func(*domain.EventCandidate) (bool, error)
	existsFn    func(source, id string) (bool, error)
	nextFn      func() (*domain.EventCandidate, error)
	getFn       func(uint) (*domain.EventCandidate, error)
	setStatusFn func(uint, domain.CandidateStatus) error

	upserted    []*domain.EventCandidate
	statusCalls []domain.CandidateStatus
}

func (f *fakeRepo) UpsertIfAbsent(c *domain.EventCandidate) (bool, error) {
	f.upserted = append(f.upserted, c)
	if f.upsertFn != nil {
		return f.upsertFn(c)
	}
	return true, nil
}

func (f *fakeRepo) ExistsForSourceItem(source, id string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(source, id)
	}
	return false, nil
}

func (f *fakeRepo) NextPending() (*domain.EventCandidate, error) {
	if f.nextFn != nil {
		return f.nextFn()
	}
	return nil, nil
}

func (f *fakeRepo) GetByID(id uint) (*domain.EventCandidate, error) {
	if f.getFn != nil {
		return f.getFn(id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) SetStatus(id uint, status domain.CandidateStatus) error {
	f.statusCalls = append(f.statusCalls, status)
	if f.setStatusFn != nil {
		return f.setStatusFn(id, status)
	}
	return nil
}

type fakeMail struct {
	messages []domain.InboundMessage
	dropped  int
	err      error
}

func (f *fakeMail) Source() string { return "gmail" }

func (f *fakeMail) ListRecent(ctx context.Context, accessToken, refreshToken string, max int, window time.Duration, onTokenRefresh domain.TokenUpdateFunc) ([]domain.InboundMessage, int, error) {
	return f.messages, f.dropped, f.err
}

type fakeCreds struct {
	err error
}

func (f *fakeCreds) Credentials(ctx context.Context) (*authdomain.CredentialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &authdomain.CredentialRecord{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeCreds) PersistToken(token *oauth2.Token) error { return nil }

type fakeExtractor struct {
	extractFn func(ctx context.Context, subject, body string) (*ai.EventExtraction, error)
	calls     int
}

func (f *fakeExtractor) ExtractEvent(ctx context.Context, subject, body string) (*ai.EventExtraction, error) {
	f.calls++
	if f.extractFn != nil {
		return f.extractFn(ctx, subject, body)
	}
	return nil, ai.ErrUnavailable
}

type fakeCalendar struct {
	insertFn func(payload domain.EventPayload) (string, error)
	payloads []domain.EventPayload
}

func (f *fakeCalendar) InsertEvent(ctx context.Context, accessToken, refreshToken, calendarID string, payload domain.EventPayload, onTokenRefresh domain.TokenUpdateFunc) (string, error) {
	f.payloads = append(f.payloads, payload)
	if f.insertFn != nil {
		return f.insertFn(payload)
	}
	return "event-id", nil
}
