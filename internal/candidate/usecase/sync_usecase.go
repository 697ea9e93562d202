package usecase

import (
	"context"
	"log"
	"time"
	"unicode/utf8"

	"inboxcal/internal/candidate/domain"
	"inboxcal/internal/candidate/repository"
	"inboxcal/pkg/ai"
	"inboxcal/pkg/classify"
	"inboxcal/pkg/datetime"

	"golang.org/x/time/rate"
)

// SyncConfig tunes one sync pass.
type SyncConfig struct {
	MaxMessages    int
	LookbackWindow time.Duration

	// Sanity window: resolved dates more than MaxStale in the past or more
	// than MaxFuture ahead are discarded as implausible. Both bounds are
	// inclusive at the edge.
	MaxStale  time.Duration
	MaxFuture time.Duration

	// AIFallbackLimit caps extractor calls per sync; AIFallbackMinScore is the
	// secondary classifier threshold below which the fallback is not worth
	// the cost.
	AIFallbackLimit    int
	AIFallbackMinScore int
}

// DefaultSyncConfig returns the observed production tuning.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		MaxMessages:        50,
		LookbackWindow:     7 * 24 * time.Hour,
		MaxStale:           24 * time.Hour,
		MaxFuture:          180 * 24 * time.Hour,
		AIFallbackLimit:    8,
		AIFallbackMinScore: 4,
	}
}

// SyncUsecase runs the extraction pipeline: fetch recent messages, classify,
// resolve a date/time, fall back to the AI extractor for promising messages,
// and dedup-insert candidates.
type SyncUsecase struct {
	repo       repository.CandidateRepository
	mail       MailProvider
	creds      CredentialProvider
	classifier *classify.Classifier
	resolver   *datetime.Resolver
	extractor  ai.ExtractorService // nil disables the AI fallback
	limiter    *rate.Limiter
	location   *time.Location
	cfg        SyncConfig

	now func() time.Time
}

// NewSyncUsecase wires the pipeline. extractor may be nil.
func NewSyncUsecase(
	repo repository.CandidateRepository,
	mail MailProvider,
	creds CredentialProvider,
	classifier *classify.Classifier,
	resolver *datetime.Resolver,
	extractor ai.ExtractorService,
	location *time.Location,
	cfg SyncConfig,
) *SyncUsecase {
	if location == nil {
		location = time.UTC
	}
	return &SyncUsecase{
		repo:       repo,
		mail:       mail,
		creds:      creds,
		classifier: classifier,
		resolver:   resolver,
		extractor:  extractor,
		// One extractor call per 2s sustained, bursting to the per-sync cap.
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), maxInt(cfg.AIFallbackLimit, 1)),
		location: location,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run executes one synchronous pass. Individual message failures are counted
// as skipped and never abort the sync; only credential and listing failures
// are returned as errors.
func (u *SyncUsecase) Run(ctx context.Context) (*domain.SyncReport, error) {
	creds, err := u.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	messages, dropped, err := u.mail.ListRecent(ctx, creds.AccessToken, creds.RefreshToken,
		u.cfg.MaxMessages, u.cfg.LookbackWindow, u.creds.PersistToken)
	if err != nil {
		return nil, err
	}

	// Messages the provider could not fetch count as skipped too.
	report := &domain.SyncReport{Skipped: dropped}
	now := u.now()
	aiCalls := 0

	for _, msg := range messages {
		candidate, ok := u.processMessage(ctx, msg, now, &aiCalls)
		if !ok {
			report.Skipped++
			continue
		}
		inserted, err := u.repo.UpsertIfAbsent(candidate)
		if err != nil {
			log.Printf("[WARN] Failed to store candidate for %s: %v", msg.ID, err)
			report.Skipped++
			continue
		}
		if inserted {
			report.Added++
		} else {
			report.Skipped++
		}
	}
	return report, nil
}

// processMessage classifies and resolves one message into a candidate. A
// false return means skip, never a pipeline failure.
func (u *SyncUsecase) processMessage(ctx context.Context, msg domain.InboundMessage, now time.Time, aiCalls *int) (*domain.EventCandidate, bool) {
	exists, err := u.repo.ExistsForSourceItem(u.mail.Source(), msg.ID)
	if err != nil {
		log.Printf("[WARN] Dedup lookup failed for %s: %v", msg.ID, err)
		return nil, false
	}
	if exists {
		return nil, false
	}

	isEvent, score := u.classifier.Score(msg.Subject, msg.From, msg.Body)

	if isEvent {
		if start, found := u.resolver.Resolve(msg.Subject+"\n"+msg.Body, now); found && u.withinWindow(start, now) {
			confidence := float64(score) / 10
			if confidence > 1 {
				confidence = 1
			}
			return &domain.EventCandidate{
				Source:       u.mail.Source(),
				SourceItemID: msg.ID,
				Title:        msg.Subject,
				Summary:      msg.Subject,
				Description:  truncate(msg.Body, 500),
				StartTime:    &start,
				Status:       domain.StatusPending,
				Confidence:   confidence,
			}, true
		}
	}

	// Deterministic resolution came up empty; spend an AI call only on
	// messages that passed classification with a high score and only within
	// the per-sync budget. A message the classifier disqualified never
	// reaches the extractor.
	if u.extractor == nil || !isEvent || score < u.cfg.AIFallbackMinScore || *aiCalls >= u.cfg.AIFallbackLimit {
		return nil, false
	}
	if !u.limiter.Allow() {
		return nil, false
	}
	*aiCalls++

	extraction, err := u.extractor.ExtractEvent(ctx, msg.Subject, msg.Body)
	if err != nil {
		// ErrUnavailable and transport errors alike mean "skip this email".
		return nil, false
	}
	start, ok := extraction.Start(u.location)
	if !ok || !u.withinWindow(start, now) {
		return nil, false
	}

	candidate := &domain.EventCandidate{
		Source:       u.mail.Source(),
		SourceItemID: msg.ID,
		Title:        extraction.Title,
		Summary:      extraction.Summary,
		Description:  truncate(msg.Body, 500),
		StartTime:    &start,
		AllDay:       extraction.AllDay,
		Location:     extraction.Location,
		Status:       domain.StatusPending,
		Confidence:   extraction.Confidence,
	}
	if candidate.Title == "" {
		candidate.Title = msg.Subject
	}
	if end, ok := extraction.End(u.location); ok {
		candidate.EndTime = &end
	}
	return candidate, true
}

// withinWindow applies the sanity window, inclusive at both edges.
func (u *SyncUsecase) withinWindow(t, now time.Time) bool {
	return !t.Before(now.Add(-u.cfg.MaxStale)) && !t.After(now.Add(u.cfg.MaxFuture))
}

// truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
