package repository

import "inboxcal/internal/candidate/domain"

// CandidateRepository persists event candidates. All operations are
// synchronous and independently transactional.
type CandidateRepository interface {
	// UpsertIfAbsent inserts the candidate keyed by (source, source_item_id).
	// If a record with that key already exists the call is a silent no-op and
	// returns false. This is the sole deduplication mechanism.
	UpsertIfAbsent(candidate *domain.EventCandidate) (bool, error)

	// NextPending returns the pending candidate with the smallest id, or nil
	// when no pending candidates remain.
	NextPending() (*domain.EventCandidate, error)

	// GetByID returns domain.ErrNotFound when no candidate has the id.
	GetByID(id uint) (*domain.EventCandidate, error)

	// SetStatus transitions a pending candidate to the given status. Terminal
	// candidates are never resurrected: the update is guarded on
	// status = pending and silently affects zero rows otherwise.
	SetStatus(id uint, status domain.CandidateStatus) error

	// ExistsForSourceItem reports whether a candidate already exists for the
	// source item, supporting pre-filtering before expensive extraction work.
	ExistsForSourceItem(source, sourceItemID string) (bool, error)
}
