package repository

import (
	"inboxcal/internal/auth/domain"
	"inboxcal/pkg/tokencipher"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository stores the singleton Google credential record.
// Unlike candidates, the credential row has upsert-overwrite semantics:
// every save replaces the previous record.
type CredentialRepository interface {
	Save(record *domain.CredentialRecord) error
	// Load returns nil when no credentials have been stored yet.
	Load() (*domain.CredentialRecord, error)
}

type gormCredentialRepository struct {
	db     *gorm.DB
	cipher *tokencipher.Cipher
}

// NewGormCredentialRepository creates a new GORM-based CredentialRepository.
// Token fields are encrypted with the cipher before they are written.
func NewGormCredentialRepository(db *gorm.DB, cipher *tokencipher.Cipher) CredentialRepository {
	return &gormCredentialRepository{db: db, cipher: cipher}
}

func (r *gormCredentialRepository) Save(record *domain.CredentialRecord) error {
	encAccess, err := r.cipher.Encrypt(record.AccessToken)
	if err != nil {
		return err
	}
	encRefresh, err := r.cipher.Encrypt(record.RefreshToken)
	if err != nil {
		return err
	}

	row := *record
	row.ID = domain.SingletonID
	row.AccessToken = encAccess
	row.RefreshToken = encRefresh

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (r *gormCredentialRepository) Load() (*domain.CredentialRecord, error) {
	var row domain.CredentialRecord
	err := r.db.Where("id = ?", domain.SingletonID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	access, err := r.cipher.Decrypt(row.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := r.cipher.Decrypt(row.RefreshToken)
	if err != nil {
		return nil, err
	}
	row.AccessToken = access
	row.RefreshToken = refresh
	return &row, nil
}
