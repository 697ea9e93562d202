// Package classify scores raw email text as "event-like" using keyword
// heuristics. Scoring is pure: no I/O, no mutation, deterministic for a fixed
// configuration.
package classify

import (
	"regexp"
	"strings"
)

// Mode controls how negative signals affect the decision.
type Mode string

const (
	// ModeStrict disqualifies a message on any negative hit, regardless of
	// other evidence.
	ModeStrict Mode = "strict"
	// ModePermissive lets negative hits merely subtract from the score.
	ModePermissive Mode = "permissive"
)

// Config holds the keyword sets and the decision threshold. The three keyword
// sets are disjoint.
type Config struct {
	Mode Mode
	// Threshold overrides the mode default (3 strict, 1 permissive). nil
	// selects the default; an explicit zero is honored.
	Threshold *int

	NegativeHints []string
	PositiveHints []string
	SocialHints   []string

	// Sender domains associated with ticketing/RSVP platforms.
	TicketingDomains []string
	// Subject phrases indicating registration or RSVP confirmation.
	ConfirmationPhrases []string
}

// DefaultConfig returns the stock keyword sets with the observed threshold
// for the mode: 3 for strict, 1 for permissive.
func DefaultConfig(mode Mode) Config {
	threshold := 3
	if mode == ModePermissive {
		threshold = 1
	}
	return Config{
		Mode:      mode,
		Threshold: &threshold,
		NegativeHints: []string{
			"unsubscribe", "% off", "sale ends", "discount", "promo code",
			"free shipping", "limited time offer", "clearance", "newsletter",
			"coupon", "deal of the day",
		},
		PositiveHints: []string{
			"appointment", "meeting", "reminder", "deadline", "due by",
			"scheduled", "invite", "invitation", "interview", "webinar",
			"conference call",
		},
		SocialHints: []string{
			"party", "dinner", "lunch", "birthday", "wedding", "brunch",
			"drinks", "bbq", "game night", "concert", "hangout",
		},
		TicketingDomains: []string{
			"eventbrite.com", "ticketmaster.com", "meetup.com", "lu.ma",
			"dice.fm", "universe.com", "splashthat.com",
		},
		ConfirmationPhrases: []string{
			"registration confirmed", "you're registered", "you are registered",
			"rsvp", "your ticket", "order confirmed for",
		},
	}
}

var (
	timeOfDayPattern = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)\b|\b\d{1,2}:\d{2}\b`)
	weekdayPattern   = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tonight|tomorrow)\b`)
	monthPattern     = regexp.MustCompile(`(?i)\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|jun(e)?|jul(y)?|aug(ust)?|sep(tember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`)
)

// Classifier applies a Config to message text.
type Classifier struct {
	cfg       Config
	threshold int
}

// New creates a Classifier. A nil threshold falls back to the mode default so
// a partially filled Config stays usable.
func New(cfg Config) *Classifier {
	if cfg.Mode == "" {
		cfg.Mode = ModeStrict
	}
	threshold := 3
	if cfg.Mode == ModePermissive {
		threshold = 1
	}
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	return &Classifier{cfg: cfg, threshold: threshold}
}

// Score rates the message and decides whether it looks like an event. The raw
// score is returned alongside the decision so callers can apply secondary
// thresholds (e.g. gating the AI fallback on score >= 4).
func (c *Classifier) Score(subject, sender, body string) (bool, int) {
	text := strings.ToLower(subject + "\n" + body)
	lowerSubject := strings.ToLower(subject)
	lowerSender := strings.ToLower(sender)

	score := 0
	negatives := 0

	for _, hint := range c.cfg.NegativeHints {
		negatives += strings.Count(text, hint)
	}
	score -= negatives

	for _, hint := range c.cfg.PositiveHints {
		score += 2 * strings.Count(text, hint)
	}
	for _, hint := range c.cfg.SocialHints {
		score += 2 * strings.Count(text, hint)
	}

	if timeOfDayPattern.MatchString(text) {
		score++
	}
	if weekdayPattern.MatchString(text) {
		score++
	}
	if monthPattern.MatchString(text) {
		score++
	}
	for _, domain := range c.cfg.TicketingDomains {
		if strings.Contains(lowerSender, domain) {
			score += 2
			break
		}
	}
	for _, phrase := range c.cfg.ConfirmationPhrases {
		if strings.Contains(lowerSubject, phrase) {
			score += 2
			break
		}
	}

	if c.cfg.Mode == ModeStrict && negatives > 0 {
		return false, score
	}
	return score >= c.threshold, score
}
