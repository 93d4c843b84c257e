package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	transactionDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/transaction"
)

// UploadRepository implements statement.UploadRepository using GORM.
type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(upload *transactionDatamodel.StatementUpload) error {
	return r.db.Create(upload).Error
}

func (r *UploadRepository) GetByID(id string) (*transactionDatamodel.StatementUpload, error) {
	// the id column is a uuid; anything else would fail the cast instead
	// of just missing
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var record transactionDatamodel.StatementUpload
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *UploadRepository) UpdateStatus(id string, status string) error {
	return r.db.Model(&transactionDatamodel.StatementUpload{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// GetStuck returns sessions still sitting in uploaded or extracting whose
// last update is older than the cutoff.
func (r *UploadRepository) GetStuck(olderThan time.Time) ([]*transactionDatamodel.StatementUpload, error) {
	var records []*transactionDatamodel.StatementUpload
	err := r.db.
		Where("status IN ?", []string{
			transactionDatamodel.UploadStatusUploaded,
			transactionDatamodel.UploadStatusExtracting,
		}).
		Where("updated_at < ?", olderThan).
		Order("updated_at ASC").
		Find(&records).Error
	return records, err
}

func (r *UploadRepository) MarkExtracted(id string, total, incomplete, credits int, extractedAt time.Time) error {
	return r.db.Model(&transactionDatamodel.StatementUpload{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_records":      total,
			"incomplete_records": incomplete,
			"credit_records":     credits,
			"extracted_at":       extractedAt,
		}).Error
}

func (r *UploadRepository) MarkCompleted(id string, completedAt time.Time) error {
	return r.db.Model(&transactionDatamodel.StatementUpload{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       transactionDatamodel.UploadStatusCompleted,
			"completed_at": completedAt,
		}).Error
}

func (r *UploadRepository) MarkFailed(id string, reason string) error {
	return r.db.Model(&transactionDatamodel.StatementUpload{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        transactionDatamodel.UploadStatusFailed,
			"error_message": reason,
		}).Error
}
