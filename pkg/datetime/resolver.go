// Package datetime extracts a best-guess event date/time from free text.
//
// The resolver scans an ordered set of patterns (ISO-8601, month-name day,
// numeric slash date, relative day tokens) and resolves to the first pattern
// that yields a parseable date. A date with no discernible time gets a default
// local time; results always carry an explicit timezone offset.
package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config tunes the resolver. The timezone is deliberately a parameter: the
// resolver itself has no hardwired zone.
type Config struct {
	// Location attached to parsed results that carry no offset of their own.
	Location *time.Location
	// DefaultHour is the local hour used when a date has no time. nil means 9;
	// an explicit zero means midnight.
	DefaultHour *int
	// HardFallback, when set, substitutes "now + 1 day at DefaultHour" instead
	// of reporting no date found. Used by the permissive pipeline variant.
	HardFallback bool
}

type Resolver struct {
	cfg         Config
	defaultHour int
}

func New(cfg Config) *Resolver {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	hour := 9
	if cfg.DefaultHour != nil {
		hour = *cfg.DefaultHour
	}
	return &Resolver{cfg: cfg, defaultHour: hour}
}

var (
	isoPattern = regexp.MustCompile(
		`\b\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:?\d{2})?)?\b`)
	monthDayPattern = regexp.MustCompile(
		`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	slashPattern = regexp.MustCompile(
		`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	relativePattern = regexp.MustCompile(
		`(?i)\b(today|tonight|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	meridiemTimePattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clockTimePattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// Resolve scans text for a date and returns it normalized to an explicit
// offset, or false when no parseable date is present (unless HardFallback is
// configured). Patterns are tried in a fixed priority order and the first one
// that parses wins; ties never go to "most date-like".
func (r *Resolver) Resolve(text string, now time.Time) (time.Time, bool) {
	if t, ok := r.resolveISO(text); ok {
		return t, true
	}
	if t, ok := r.resolveMonthDay(text, now); ok {
		return t, true
	}
	if t, ok := r.resolveSlash(text, now); ok {
		return t, true
	}
	if t, ok := r.resolveRelative(text, now); ok {
		return t, true
	}
	if r.cfg.HardFallback {
		day := now.In(r.cfg.Location).AddDate(0, 0, 1)
		return time.Date(day.Year(), day.Month(), day.Day(), r.defaultHour, 0, 0, 0, r.cfg.Location), true
	}
	return time.Time{}, false
}

func (r *Resolver) resolveISO(text string) (time.Time, bool) {
	match := isoPattern.FindString(text)
	if match == "" {
		return time.Time{}, false
	}
	normalized := strings.Replace(match, " ", "T", 1)

	// Offset-bearing forms keep their own zone so already-normalized input
	// round-trips unchanged.
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, normalized, r.cfg.Location); err == nil {
			return t, true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", normalized, r.cfg.Location); err == nil {
		hour, minute := r.timeOfDay(text)
		return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, r.cfg.Location), true
	}
	return time.Time{}, false
}

func (r *Resolver) resolveMonthDay(text string, now time.Time) (time.Time, bool) {
	groups := monthDayPattern.FindStringSubmatch(text)
	if groups == nil {
		return time.Time{}, false
	}
	month, ok := monthsByPrefix[strings.ToLower(groups[1])[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(groups[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := now.In(r.cfg.Location).Year()
	explicitYear := groups[3] != ""
	if explicitYear {
		year, err = strconv.Atoi(groups[3])
		if err != nil {
			return time.Time{}, false
		}
	}

	hour, minute := r.timeOfDay(text)
	t := time.Date(year, month, day, hour, minute, 0, 0, r.cfg.Location)
	if t.Month() != month {
		// Day overflowed the month (e.g. Feb 30); not a real date.
		return time.Time{}, false
	}
	// A passed month/day with no explicit year means the next occurrence.
	if !explicitYear && t.Before(now.Add(-24*time.Hour)) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

func (r *Resolver) resolveSlash(text string, now time.Time) (time.Time, bool) {
	groups := slashPattern.FindStringSubmatch(text)
	if groups == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(groups[1])
	day, _ := strconv.Atoi(groups[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := now.In(r.cfg.Location).Year()
	explicitYear := groups[3] != ""
	if explicitYear {
		year, _ = strconv.Atoi(groups[3])
		if year < 100 {
			year += 2000
		}
	}

	hour, minute := r.timeOfDay(text)
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, r.cfg.Location)
	if t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	if !explicitYear && t.Before(now.Add(-24*time.Hour)) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

func (r *Resolver) resolveRelative(text string, now time.Time) (time.Time, bool) {
	token := strings.ToLower(relativePattern.FindString(text))
	if token == "" {
		return time.Time{}, false
	}
	local := now.In(r.cfg.Location)

	var day time.Time
	switch token {
	case "today", "tonight":
		day = local
	case "tomorrow":
		day = local.AddDate(0, 0, 1)
	default:
		target, ok := weekdaysByName[token]
		if !ok {
			return time.Time{}, false
		}
		ahead := (int(target) - int(local.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		day = local.AddDate(0, 0, ahead)
	}

	hour, minute := r.timeOfDay(text)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, r.cfg.Location), true
}

// timeOfDay finds an explicit time anywhere in the text, falling back to the
// configured default hour.
func (r *Resolver) timeOfDay(text string) (int, int) {
	if groups := meridiemTimePattern.FindStringSubmatch(text); groups != nil {
		hour, _ := strconv.Atoi(groups[1])
		minute := 0
		if groups[2] != "" {
			minute, _ = strconv.Atoi(groups[2])
		}
		if hour >= 1 && hour <= 12 && minute < 60 {
			if strings.EqualFold(groups[3], "pm") && hour != 12 {
				hour += 12
			}
			if strings.EqualFold(groups[3], "am") && hour == 12 {
				hour = 0
			}
			return hour, minute
		}
	}
	if groups := clockTimePattern.FindStringSubmatch(text); groups != nil {
		hour, _ := strconv.Atoi(groups[1])
		minute, _ := strconv.Atoi(groups[2])
		if hour < 24 && minute < 60 {
			return hour, minute
		}
	}
	return r.defaultHour, 0
}
