package ai

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable means the extractor produced nothing usable for this email:
// the call failed, the response was not valid JSON, the model said it is not
// an event, or no start time was returned. All four are equivalent
// "skip this email" outcomes for the caller.
var ErrUnavailable = errors.New("ai extraction unavailable")

// EventExtraction is the strict JSON schema the model must return.
type EventExtraction struct {
	IsEvent    bool    `json:"is_event"`
	Title      string  `json:"title,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	StartTime  string  `json:"start_time,omitempty"`
	EndTime    string  `json:"end_time,omitempty"`
	AllDay     bool    `json:"all_day,omitempty"`
	Location   string  `json:"location,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

var startTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Start parses the reported start time. Offset-less forms are interpreted in
// loc. Returns false when the value is absent or unparseable.
func (e *EventExtraction) Start(loc *time.Location) (time.Time, bool) {
	return parseWhen(e.StartTime, loc)
}

// End parses the reported end time, if any.
func (e *EventExtraction) End(loc *time.Location) (time.Time, bool) {
	return parseWhen(e.EndTime, loc)
}

func parseWhen(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	for _, layout := range startTimeFormats[1:] {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractorService is the interface for AI event extraction.
// Implement this interface to add new AI providers (Gemini, Ollama, etc.)
type ExtractorService interface {
	ExtractEvent(ctx context.Context, subject, body string) (*EventExtraction, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
