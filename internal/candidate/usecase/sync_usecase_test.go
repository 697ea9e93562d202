package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	authdomain "inboxcal/internal/auth/domain"
	"inboxcal/internal/candidate/domain"
	"inboxcal/pkg/ai"
	"inboxcal/pkg/classify"
	"inboxcal/pkg/datetime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var syncNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newTestSync(repo *fakeRepo, mail *fakeMail, creds *fakeCreds, extractor ai.ExtractorService, cfg SyncConfig) *SyncUsecase {
	u := NewSyncUsecase(
		repo, mail, creds,
		classify.New(classify.DefaultConfig(classify.ModeStrict)),
		datetime.New(datetime.Config{Location: time.UTC}),
		extractor, time.UTC, cfg)
	u.now = func() time.Time { return syncNow }
	return u
}

func TestRunAddsAppointmentAndSkipsMarketing(t *testing.T) {
	repo := &fakeRepo{}
	mail := &fakeMail{messages: []domain.InboundMessage{
		{
			ID:      "msg-1",
			Subject: "Dentist appointment reminder",
			From:    "frontdesk@dentalcare.example",
			Body:    "Your appointment is scheduled for Mar 15 at 2pm.",
		},
		{
			ID:      "msg-2",
			Subject: "50% off everything!",
			From:    "deals@shop.example",
			Body:    "Sale ends soon. unsubscribe here",
		},
	}}
	u := newTestSync(repo, mail, &fakeCreds{}, nil, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Skipped)

	require.Len(t, repo.upserted, 1)
	got := repo.upserted[0]
	assert.Equal(t, "gmail", got.Source)
	assert.Equal(t, "msg-1", got.SourceItemID)
	assert.Equal(t, "Dentist appointment reminder", got.Title)
	assert.Equal(t, domain.StatusPending, got.Status)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC), *got.StartTime)
	assert.Greater(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 1.0)
}

func TestRunSkipsAlreadySeenMessages(t *testing.T) {
	repo := &fakeRepo{
		existsFn: func(source, id string) (bool, error) { return id == "seen", nil },
	}
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "seen", Subject: "Team meeting", Body: "Meeting on Mar 15 at 2pm."},
	}}
	u := newTestSync(repo, mail, &fakeCreds{}, nil, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, repo.upserted)
}

func TestRunCountsConflictAsSkipped(t *testing.T) {
	repo := &fakeRepo{
		upsertFn: func(*domain.EventCandidate) (bool, error) { return false, nil },
	}
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "msg-1", Subject: "Team meeting", Body: "Meeting on Mar 15 at 2pm."},
	}}
	u := newTestSync(repo, mail, &fakeCreds{}, nil, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.Skipped)
}

func TestRunSanityWindowIsInclusive(t *testing.T) {
	cfg := DefaultSyncConfig()

	atEdge := syncNow.Add(cfg.MaxFuture)
	pastEdge := syncNow.Add(cfg.MaxFuture + 24*time.Hour)

	cases := []struct {
		name  string
		start time.Time
		added int
	}{
		{"exactly at the future edge", atEdge, 1},
		{"one day past the edge", pastEdge, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			mail := &fakeMail{messages: []domain.InboundMessage{{
				ID:      "msg-1",
				Subject: "Meeting reminder",
				Body:    "Scheduled for " + tc.start.Format(time.RFC3339),
			}}}
			u := newTestSync(repo, mail, &fakeCreds{}, nil, cfg)

			report, err := u.Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.added, report.Added)
		})
	}
}

func TestRunToleratesPerMessageStoreFailure(t *testing.T) {
	repo := &fakeRepo{
		upsertFn: func(c *domain.EventCandidate) (bool, error) {
			if c.SourceItemID == "msg-1" {
				return false, errors.New("db write failed")
			}
			return true, nil
		},
	}
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "msg-1", Subject: "Team meeting", Body: "Meeting on Mar 15 at 2pm."},
		{ID: "msg-2", Subject: "Team meeting", Body: "Meeting on Mar 16 at 2pm."},
	}}
	u := newTestSync(repo, mail, &fakeCreds{}, nil, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Skipped)
}

func TestRunPropagatesNotConnected(t *testing.T) {
	u := newTestSync(&fakeRepo{}, &fakeMail{}, &fakeCreds{err: authdomain.ErrNotConnected}, nil, DefaultSyncConfig())

	_, err := u.Run(context.Background())

	assert.ErrorIs(t, err, authdomain.ErrNotConnected)
}

func TestRunAIFallbackExtractsUnresolvableMessage(t *testing.T) {
	start := syncNow.Add(48 * time.Hour)
	extractor := &fakeExtractor{
		extractFn: func(ctx context.Context, subject, body string) (*ai.EventExtraction, error) {
			return &ai.EventExtraction{
				IsEvent:    true,
				Title:      "Quarterly planning",
				Summary:    "Planning session",
				StartTime:  start.Format(time.RFC3339),
				Location:   "Room 4",
				Confidence: 0.8,
			}, nil
		},
	}
	repo := &fakeRepo{}
	// Scores well above the fallback gate but carries no parseable date.
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "msg-1", Subject: "Team meeting invitation", Body: "Join us, details to follow."},
	}}
	u := newTestSync(repo, mail, &fakeCreds{}, extractor, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, extractor.calls)

	require.Len(t, repo.upserted, 1)
	got := repo.upserted[0]
	assert.Equal(t, "Quarterly planning", got.Title)
	assert.Equal(t, "Room 4", got.Location)
	assert.Equal(t, 0.8, got.Confidence)
	require.NotNil(t, got.StartTime)
	assert.True(t, got.StartTime.Equal(start))
}

func TestRunAIFallbackRespectsPerSyncCap(t *testing.T) {
	extractor := &fakeExtractor{}
	cfg := DefaultSyncConfig()
	cfg.AIFallbackLimit = 1
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "msg-1", Subject: "Team meeting invitation", Body: "Join us, details to follow."},
		{ID: "msg-2", Subject: "Team meeting invitation", Body: "Another one, details to follow."},
	}}
	u := newTestSync(&fakeRepo{}, mail, &fakeCreds{}, extractor, cfg)

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 2, report.Skipped)
}

func TestRunAIFallbackNeverRunsOnDisqualifiedMessages(t *testing.T) {
	extractor := &fakeExtractor{
		extractFn: func(ctx context.Context, subject, body string) (*ai.EventExtraction, error) {
			return &ai.EventExtraction{
				IsEvent:   true,
				Title:     "Fake webinar",
				StartTime: syncNow.Add(48 * time.Hour).Format(time.RFC3339),
			}, nil
		},
	}
	repo := &fakeRepo{}
	// Scores high on event keywords, but the negative hit hard-disqualifies
	// it in strict mode; that verdict must also gate the extractor.
	mail := &fakeMail{messages: []domain.InboundMessage{{
		ID:      "msg-1",
		Subject: "Webinar reminder: registration confirmed",
		From:    "promo@shop.example",
		Body:    "Click to join. unsubscribe here",
	}}}
	u := newTestSync(repo, mail, &fakeCreds{}, extractor, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, extractor.calls)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, repo.upserted)
}

func TestRunCountsProviderDroppedMessages(t *testing.T) {
	mail := &fakeMail{
		messages: []domain.InboundMessage{
			{ID: "msg-1", Subject: "Team meeting", Body: "Meeting on Mar 15 at 2pm."},
		},
		dropped: 2,
	}
	u := newTestSync(&fakeRepo{}, mail, &fakeCreds{}, nil, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 2, report.Skipped)
}

func TestRunAIFallbackNotSpentOnLowScores(t *testing.T) {
	extractor := &fakeExtractor{}
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "msg-1", Subject: "Lunch?", Body: "pick a place"},
	}}
	u := newTestSync(&fakeRepo{}, mail, &fakeCreds{}, extractor, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, extractor.calls)
	assert.Equal(t, 1, report.Skipped)
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 300)

	got := truncate(s, 499)

	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, 498)
	assert.Equal(t, s, truncate(s, len(s)))
}

func TestRunExtractorFailureSkipsMessage(t *testing.T) {
	extractor := &fakeExtractor{} // default returns ErrUnavailable
	mail := &fakeMail{messages: []domain.InboundMessage{
		{ID: "msg-1", Subject: "Team meeting invitation", Body: "Join us, details to follow."},
	}}
	u := newTestSync(&fakeRepo{}, mail, &fakeCreds{}, extractor, DefaultSyncConfig())

	report, err := u.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.Skipped)
}
