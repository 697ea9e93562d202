package domain

import (
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// CandidateStatus represents the review state of an event candidate
type CandidateStatus string

const (
	StatusPending  CandidateStatus = "pending"
	StatusAccepted CandidateStatus = "accepted"
	StatusRejected CandidateStatus = "rejected"
)

// DefaultTitle is used when neither the message subject nor the extractor
// produced a usable title.
const DefaultTitle = "Untitled event"

// ErrNotFound is returned when a candidate does not exist.
var ErrNotFound = errors.New("candidate not found")

// EventCandidate is an unconfirmed event or deadline extracted from a source
// message, awaiting user review. The (Source, SourceItemID) pair is unique:
// re-scanning the same message never creates a duplicate candidate.
type EventCandidate struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Source       string          `json:"source" gorm:"uniqueIndex:idx_source_item;not null"`
	SourceItemID string          `json:"source_item_id" gorm:"uniqueIndex:idx_source_item;not null"`
	Title        string          `json:"title" gorm:"not null"`
	Summary      string          `json:"summary,omitempty"`
	Description  string          `json:"description,omitempty"`
	StartTime    *time.Time      `json:"start_time,omitempty"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
	AllDay       bool            `json:"all_day" gorm:"default:false"`
	Location     string          `json:"location,omitempty"`
	Status       CandidateStatus `json:"status" gorm:"default:pending;index"`
	Confidence   float64         `json:"confidence"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SyncReport summarizes one sync pass over the mailbox.
type SyncReport struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// InboundMessage is a raw mail item fetched from a mail provider.
type InboundMessage struct {
	ID         string
	Subject    string
	From       string
	Body       string
	ReceivedAt time.Time
}

// EventPayload is the shape submitted to the calendar collaborator.
type EventPayload struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// TokenUpdateFunc is a callback that persists a refreshed OAuth token
type TokenUpdateFunc func(token *oauth2.Token) error
