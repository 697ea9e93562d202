package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "inboxcal/internal/auth/domain"
	"inboxcal/internal/candidate/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingCandidate(id uint, start *time.Time) *domain.EventCandidate {
	return &domain.EventCandidate{
		ID:           id,
		Source:       "gmail",
		SourceItemID: "msg-1",
		Title:        "Dentist appointment",
		Summary:      "Checkup",
		Description:  "Your appointment is scheduled.",
		StartTime:    start,
		Status:       domain.StatusPending,
	}
}

func TestNextReturnsOldestPending(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	want := pendingCandidate(7, &start)
	repo := &fakeRepo{nextFn: func() (*domain.EventCandidate, error) { return want, nil }}
	u := NewReviewUsecase(repo, &fakeCreds{}, &fakeCalendar{}, "primary", time.UTC)

	got, err := u.Next()

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNextNilWhenQueueEmpty(t *testing.T) {
	u := NewReviewUsecase(&fakeRepo{}, &fakeCreds{}, &fakeCalendar{}, "primary", time.UTC)

	got, err := u.Next()

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAcceptInsertsThenMarksAccepted(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		return pendingCandidate(1, &start), nil
	}}
	cal := &fakeCalendar{}
	u := NewReviewUsecase(repo, &fakeCreds{}, cal, "primary", time.UTC)

	err := u.Accept(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, cal.payloads, 1)
	payload := cal.payloads[0]
	assert.Equal(t, "Dentist appointment", payload.Summary)
	assert.Equal(t, "Checkup", payload.Description)
	assert.Equal(t, start, payload.Start)
	assert.Equal(t, DefaultEventDuration, payload.End.Sub(payload.Start))
	assert.Equal(t, "UTC", payload.TimeZone)
	assert.Equal(t, []domain.CandidateStatus{domain.StatusAccepted}, repo.statusCalls)
}

func TestAcceptUsesStoredEndTime(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		c := pendingCandidate(1, &start)
		c.EndTime = &end
		return c, nil
	}}
	cal := &fakeCalendar{}
	u := NewReviewUsecase(repo, &fakeCreds{}, cal, "primary", time.UTC)

	err := u.Accept(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, cal.payloads, 1)
	assert.Equal(t, end, cal.payloads[0].End)
}

func TestAcceptCalendarFailureLeavesPending(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		return pendingCandidate(1, &start), nil
	}}
	cal := &fakeCalendar{insertFn: func(domain.EventPayload) (string, error) {
		return "", errors.New("calendar unavailable")
	}}
	u := NewReviewUsecase(repo, &fakeCreds{}, cal, "primary", time.UTC)

	err := u.Accept(context.Background(), 1)

	assert.Error(t, err)
	assert.Empty(t, repo.statusCalls)
}

func TestAcceptWithoutStartTimeRejects(t *testing.T) {
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		return pendingCandidate(1, nil), nil
	}}
	cal := &fakeCalendar{}
	u := NewReviewUsecase(repo, &fakeCreds{}, cal, "primary", time.UTC)

	err := u.Accept(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, cal.payloads)
	assert.Equal(t, []domain.CandidateStatus{domain.StatusRejected}, repo.statusCalls)
}

func TestAcceptMissingCandidateIsNoOp(t *testing.T) {
	cal := &fakeCalendar{}
	repo := &fakeRepo{}
	u := NewReviewUsecase(repo, &fakeCreds{}, cal, "primary", time.UTC)

	err := u.Accept(context.Background(), 42)

	require.NoError(t, err)
	assert.Empty(t, cal.payloads)
	assert.Empty(t, repo.statusCalls)
}

func TestAcceptAlreadyReviewedIsNoOp(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		c := pendingCandidate(1, &start)
		c.Status = domain.StatusAccepted
		return c, nil
	}}
	cal := &fakeCalendar{}
	u := NewReviewUsecase(repo, &fakeCreds{}, cal, "primary", time.UTC)

	err := u.Accept(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, cal.payloads)
	assert.Empty(t, repo.statusCalls)
}

func TestAcceptPropagatesNotConnected(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		return pendingCandidate(1, &start), nil
	}}
	u := NewReviewUsecase(repo, &fakeCreds{err: authdomain.ErrNotConnected}, &fakeCalendar{}, "primary", time.UTC)

	err := u.Accept(context.Background(), 1)

	assert.ErrorIs(t, err, authdomain.ErrNotConnected)
	assert.Empty(t, repo.statusCalls)
}

func TestRejectMarksRejected(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{getFn: func(uint) (*domain.EventCandidate, error) {
		return pendingCandidate(1, &start), nil
	}}
	u := NewReviewUsecase(repo, &fakeCreds{}, &fakeCalendar{}, "primary", time.UTC)

	err := u.Reject(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []domain.CandidateStatus{domain.StatusRejected}, repo.statusCalls)
}

func TestRejectMissingCandidateIsNoOp(t *testing.T) {
	repo := &fakeRepo{}
	u := NewReviewUsecase(repo, &fakeCreds{}, &fakeCalendar{}, "primary", time.UTC)

	err := u.Reject(context.Background(), 42)

	require.NoError(t, err)
	assert.Empty(t, repo.statusCalls)
}
