package postgres

import (
	"context"

	"gorm.io/gorm"

	transactionDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/transaction"
)

const insertBatchSize = 500

// TransactionRepository persists extracted transaction records. One call to
// PersistAll is one database transaction: either every record of an upload
// lands or none do.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// PersistAll writes all records in batched inserts inside a single
// transaction and returns the number of rows written. An empty slice is a
// no-op.
func (r *TransactionRepository) PersistAll(ctx context.Context, records []*transactionDatamodel.ExtractedTransaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, insertBatchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// CountByUpload returns how many extracted records an upload produced.
func (r *TransactionRepository) CountByUpload(ctx context.Context, uploadID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&transactionDatamodel.ExtractedTransaction{}).
		Where("upload_id = ?", uploadID).
		Count(&count).Error
	return count, err
}

// GetByUpload returns an upload's extracted records in insertion order.
func (r *TransactionRepository) GetByUpload(ctx context.Context, uploadID string) ([]*transactionDatamodel.ExtractedTransaction, error) {
	var records []*transactionDatamodel.ExtractedTransaction
	err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Order("id ASC").
		Find(&records).Error
	return records, err
}
