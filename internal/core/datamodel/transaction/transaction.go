package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedTransaction is one statement line the master grammar matched.
// Nullable fields stay nil when their capture failed to parse; the row is
// still persisted with the original line in RawSourceText.
type ExtractedTransaction struct {
	ID               int64            `gorm:"primaryKey"`
	UploadID         string           `gorm:"column:upload_id;type:uuid;not null;index"`
	EmployeeID       *int64           `gorm:"column:employee_id"`
	TransactionDate  *time.Time       `gorm:"column:transaction_date;type:date"`
	Amount           *decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	MerchantName     *string          `gorm:"column:merchant_name"`
	MerchantLocality *string          `gorm:"column:merchant_locality"`
	ExpenseCategory  *string          `gorm:"column:expense_category"`
	Incomplete       bool             `gorm:"column:incomplete;not null"`
	IsCredit         bool             `gorm:"column:is_credit;not null"`
	RawSourceText    string           `gorm:"column:raw_source_text;not null"`
	ParseError       *string          `gorm:"column:parse_error"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (ExtractedTransaction) TableName() string {
	return "extracted_transactions"
}

// Upload session statuses.
const (
	UploadStatusUploaded   = "uploaded"
	UploadStatusExtracting = "extracting"
	UploadStatusMatching   = "matching"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// StatementUpload is the session row one uploaded statement PDF advances
// through: uploaded -> extracting -> matching -> completed, or failed.
type StatementUpload struct {
	ID                string     `gorm:"column:id;type:uuid;primaryKey"`
	Filename          string     `gorm:"column:filename;not null"`
	FilePath          string     `gorm:"column:file_path"`
	Status            string     `gorm:"column:status;default:uploaded"`
	TotalRecords      int        `gorm:"column:total_records;default:0"`
	IncompleteRecords int        `gorm:"column:incomplete_records;default:0"`
	CreditRecords     int        `gorm:"column:credit_records;default:0"`
	ErrorMessage      *string    `gorm:"column:error_message"`
	UploadedAt        time.Time  `gorm:"column:uploaded_at"`
	ExtractedAt       *time.Time `gorm:"column:extracted_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (StatementUpload) TableName() string {
	return "statement_uploads"
}
