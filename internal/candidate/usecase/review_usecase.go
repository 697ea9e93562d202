package usecase

import (
	"context"
	"log"
	"time"

	"inboxcal/internal/candidate/domain"
	"inboxcal/internal/candidate/repository"
)

// DefaultEventDuration is applied when a candidate has no explicit end time.
const DefaultEventDuration = time.Hour

// ReviewUsecase drives the one-at-a-time review workflow. Each candidate goes
// pending -> accepted or pending -> rejected, both terminal.
type ReviewUsecase struct {
	repo       repository.CandidateRepository
	creds      CredentialProvider
	calendar   CalendarProvider
	calendarID string
	location   *time.Location
}

func NewReviewUsecase(
	repo repository.CandidateRepository,
	creds CredentialProvider,
	calendar CalendarProvider,
	calendarID string,
	location *time.Location,
) *ReviewUsecase {
	if location == nil {
		location = time.UTC
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &ReviewUsecase{
		repo:       repo,
		creds:      creds,
		calendar:   calendar,
		calendarID: calendarID,
		location:   location,
	}
}

// Next returns the oldest pending candidate, or nil when review is done.
func (u *ReviewUsecase) Next() (*domain.EventCandidate, error) {
	return u.repo.NextPending()
}

// Accept submits the candidate to the calendar and only then marks it
// accepted; a failed calendar insert leaves the candidate pending so the user
// can retry. Missing or already-reviewed candidates are a no-op. A candidate
// without a usable start time is rejected without ever calling the calendar.
func (u *ReviewUsecase) Accept(ctx context.Context, id uint) error {
	candidate, err := u.repo.GetByID(id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil
		}
		return err
	}
	if candidate.Status != domain.StatusPending {
		return nil
	}

	if candidate.StartTime == nil {
		log.Printf("[WARN] Candidate %d has no start time, rejecting", id)
		return u.repo.SetStatus(id, domain.StatusRejected)
	}

	creds, err := u.creds.Credentials(ctx)
	if err != nil {
		return err
	}

	start := candidate.StartTime.In(u.location)
	end := start.Add(DefaultEventDuration)
	if candidate.EndTime != nil {
		end = candidate.EndTime.In(u.location)
	}

	description := candidate.Summary
	if description == "" {
		description = candidate.Description
	}

	payload := domain.EventPayload{
		Summary:     candidate.Title,
		Description: description,
		Location:    candidate.Location,
		Start:       start,
		End:         end,
		TimeZone:    u.location.String(),
	}

	if _, err := u.calendar.InsertEvent(ctx, creds.AccessToken, creds.RefreshToken,
		u.calendarID, payload, u.creds.PersistToken); err != nil {
		return err
	}
	return u.repo.SetStatus(id, domain.StatusAccepted)
}

// Reject transitions the candidate to rejected. No external side effect; a
// terminal candidate stays untouched thanks to the repository guard.
func (u *ReviewUsecase) Reject(ctx context.Context, id uint) error {
	if _, err := u.repo.GetByID(id); err != nil {
		if err == domain.ErrNotFound {
			return nil
		}
		return err
	}
	return u.repo.SetStatus(id, domain.StatusRejected)
}
