package statement

import (
	"time"

	transactionDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/transaction"
)

// Upload is the API view of one statement upload session.
type Upload struct {
	ID                string     `json:"id"`
	Filename          string     `json:"filename"`
	Status            string     `json:"status"`
	TotalRecords      int        `json:"total_records"`
	IncompleteRecords int        `json:"incomplete_records"`
	CreditRecords     int        `json:"credit_records"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	UploadedAt        time.Time  `json:"uploaded_at"`
	ExtractedAt       *time.Time `json:"extracted_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func FromDataModel(m *transactionDatamodel.StatementUpload) *Upload {
	return &Upload{
		ID:                m.ID,
		Filename:          m.Filename,
		Status:            m.Status,
		TotalRecords:      m.TotalRecords,
		IncompleteRecords: m.IncompleteRecords,
		CreditRecords:     m.CreditRecords,
		ErrorMessage:      m.ErrorMessage,
		UploadedAt:        m.UploadedAt,
		ExtractedAt:       m.ExtractedAt,
		CompletedAt:       m.CompletedAt,
	}
}
