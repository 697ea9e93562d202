package repository

import (
	"time"

	"inboxcal/internal/candidate/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormCandidateRepository implements CandidateRepository using GORM
type gormCandidateRepository struct {
	db *gorm.DB
}

// NewGormCandidateRepository creates a new GORM-based CandidateRepository
func NewGormCandidateRepository(db *gorm.DB) CandidateRepository {
	return &gormCandidateRepository{db: db}
}

func (r *gormCandidateRepository) UpsertIfAbsent(candidate *domain.EventCandidate) (bool, error) {
	if candidate.Title == "" {
		candidate.Title = domain.DefaultTitle
	}
	if candidate.Status == "" {
		candidate.Status = domain.StatusPending
	}
	candidate.CreatedAt = time.Now()

	// Dedup rides on the composite unique index; the conflict clause turns a
	// duplicate insert into zero affected rows instead of an error.
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "source_item_id"}},
		DoNothing: true,
	}).Create(candidate)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormCandidateRepository) NextPending() (*domain.EventCandidate, error) {
	var candidate domain.EventCandidate
	err := r.db.Where("status = ?", domain.StatusPending).
		Order("id ASC").
		First(&candidate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *gormCandidateRepository) GetByID(id uint) (*domain.EventCandidate, error) {
	var candidate domain.EventCandidate
	err := r.db.Where("id = ?", id).First(&candidate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *gormCandidateRepository) SetStatus(id uint, status domain.CandidateStatus) error {
	// Guarded on the current status so accepted/rejected stay terminal even
	// when two review requests race.
	return r.db.Model(&domain.EventCandidate{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Update("status", status).Error
}

func (r *gormCandidateRepository) ExistsForSourceItem(source, sourceItemID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.EventCandidate{}).
		Where("source = ? AND source_item_id = ?", source, sourceItemID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
