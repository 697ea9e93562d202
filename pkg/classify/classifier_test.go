package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAppointmentReminder(t *testing.T) {
	c := New(DefaultConfig(ModeStrict))

	isEvent, score := c.Score(
		"Dentist appointment reminder",
		"frontdesk@dentalcare.example",
		"Your appointment is scheduled for Mar 15 at 2pm.",
	)

	assert.True(t, isEvent)
	assert.GreaterOrEqual(t, score, 3)
}

func TestScoreMarketingRejectedDespiteDates(t *testing.T) {
	c := New(DefaultConfig(ModeStrict))

	isEvent, _ := c.Score(
		"50% off everything!",
		"deals@shop.example",
		"Sale ends Friday at 9:00. unsubscribe here",
	)

	// Any negative hit disqualifies in strict mode, no matter how much
	// date-like text is present.
	assert.False(t, isEvent)
}

func TestScorePermissiveSubtractsNegatives(t *testing.T) {
	c := New(DefaultConfig(ModePermissive))

	// One negative hit against strong positive evidence: still an event.
	isEvent, score := c.Score(
		"Team meeting Thursday",
		"boss@company.example",
		"Our weekly meeting is at 10:00. Reply to unsubscribe from these invites.",
	)
	assert.True(t, isEvent)
	assert.GreaterOrEqual(t, score, 1)
}

func TestScoreTicketingSenderDomain(t *testing.T) {
	c := New(DefaultConfig(ModeStrict))

	_, plain := c.Score("Your order", "noreply@example.com", "see attached")
	_, ticketed := c.Score("Your order", "noreply@eventbrite.com", "see attached")

	assert.Equal(t, plain+2, ticketed)
}

func TestScoreConfirmationSubjectPhrase(t *testing.T) {
	c := New(DefaultConfig(ModeStrict))

	_, base := c.Score("hello", "a@b.example", "")
	_, confirmed := c.Score("Registration confirmed: GopherCon", "a@b.example", "")

	assert.Equal(t, base+2, confirmed)
}

func TestScoreDeterministic(t *testing.T) {
	c := New(DefaultConfig(ModeStrict))

	subject, sender, body := "Lunch tomorrow?", "friend@mail.example", "Want to grab lunch at noon?"
	first, firstScore := c.Score(subject, sender, body)
	for i := 0; i < 5; i++ {
		again, againScore := c.Score(subject, sender, body)
		assert.Equal(t, first, again)
		assert.Equal(t, firstScore, againScore)
	}
}

func TestScoreCustomThreshold(t *testing.T) {
	threshold := 100
	cfg := DefaultConfig(ModeStrict)
	cfg.Threshold = &threshold
	c := New(cfg)

	isEvent, score := c.Score(
		"Dentist appointment reminder",
		"frontdesk@dentalcare.example",
		"Your appointment is scheduled for Mar 15 at 2pm.",
	)
	assert.False(t, isEvent)
	assert.Greater(t, score, 0)
}

func TestScoreExplicitZeroThreshold(t *testing.T) {
	threshold := 0
	cfg := DefaultConfig(ModeStrict)
	cfg.Threshold = &threshold
	c := New(cfg)

	// A zero threshold is a real setting, not a request for the default.
	isEvent, score := c.Score("hello", "a@b.example", "")
	assert.True(t, isEvent)
	assert.Equal(t, 0, score)
}
