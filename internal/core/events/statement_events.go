package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStatementUploaded  = "statement.uploaded"
	EventTypeStatementExtracted = "statement.extracted"
	EventTypeExtractionFailed   = "statement.extraction_failed"
)

type StatementUploadedEvent struct {
	BaseEvent
	UploadID string `json:"upload_id"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename"`
}

func NewStatementUploadedEvent(uploadID, filePath, filename string) *StatementUploadedEvent {
	return &StatementUploadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStatementUploaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"upload_id": uploadID,
				"file_path": filePath,
				"filename":  filename,
			},
		},
		UploadID: uploadID,
		FilePath: filePath,
		Filename: filename,
	}
}

type StatementExtractedEvent struct {
	BaseEvent
	UploadID   string `json:"upload_id"`
	Total      int    `json:"total"`
	Incomplete int    `json:"incomplete"`
	Credits    int    `json:"credits"`
}

func NewStatementExtractedEvent(uploadID string, total, incomplete, credits int) *StatementExtractedEvent {
	return &StatementExtractedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStatementExtracted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"upload_id":  uploadID,
				"total":      total,
				"incomplete": incomplete,
				"credits":    credits,
			},
		},
		UploadID:   uploadID,
		Total:      total,
		Incomplete: incomplete,
		Credits:    credits,
	}
}

type ExtractionFailedEvent struct {
	BaseEvent
	UploadID string `json:"upload_id"`
	Reason   string `json:"reason"`
}

func NewExtractionFailedEvent(uploadID, reason string) *ExtractionFailedEvent {
	return &ExtractionFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExtractionFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"upload_id": uploadID,
				"reason":    reason,
			},
		},
		UploadID: uploadID,
		Reason:   reason,
	}
}
