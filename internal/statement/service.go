package statement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/danrusdi/card-reconciliation/internal"
	transactionDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/transaction"
	"github.com/danrusdi/card-reconciliation/internal/core/events"
	"github.com/danrusdi/card-reconciliation/internal/extractor"
)

// UploadRepository is the data access surface for upload sessions.
type UploadRepository interface {
	Create(upload *transactionDatamodel.StatementUpload) error
	GetByID(id string) (*transactionDatamodel.StatementUpload, error)
	UpdateStatus(id string, status string) error
	GetStuck(olderThan time.Time) ([]*transactionDatamodel.StatementUpload, error)
	MarkExtracted(id string, total, incomplete, credits int, extractedAt time.Time) error
	MarkCompleted(id string, completedAt time.Time) error
	MarkFailed(id string, reason string) error
}

// BulkPersister writes an extraction pass's records in one batch.
type BulkPersister interface {
	PersistAll(ctx context.Context, records []*transactionDatamodel.ExtractedTransaction) (int, error)
}

// DocumentExtractor runs the extraction pipeline over one statement file.
type DocumentExtractor interface {
	Extract(ctx context.Context, pdfPath string, uploadID string) ([]*transactionDatamodel.ExtractedTransaction, extractor.Stats, error)
}

// EventPublisher decouples the upload surface from the stages that follow it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service owns the statement upload session lifecycle. Upload accepts the
// file and returns immediately; extraction and matching run on the event bus.
type Service struct {
	repo      UploadRepository
	persister BulkPersister
	extractor DocumentExtractor
	matcher   Matcher
	publisher EventPublisher
	cfg       internal.UploadConfig
	logger    *slog.Logger
}

func NewService(
	repo UploadRepository,
	persister BulkPersister,
	documentExtractor DocumentExtractor,
	matcher Matcher,
	publisher EventPublisher,
	cfg internal.UploadConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		persister: persister,
		extractor: documentExtractor,
		matcher:   matcher,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Upload validates and stores the statement body, records the session and
// hands the file to the extraction stage. It returns as soon as the session
// row exists; callers poll Get for progress.
func (s *Service) Upload(ctx context.Context, filename string, content io.Reader, size int64) (*Upload, error) {
	if err := ValidateUpload(filename, size, s.cfg.MaxFileBytes); err != nil {
		s.logger.Error("upload rejected", "filename", filename, "size", size, "error", err)
		return nil, err
	}

	id := uuid.New().String()
	path, err := s.storeTempFile(id, content)
	if err != nil {
		s.logger.Error("failed to store uploaded statement", "filename", filename, "error", err)
		return nil, internal.NewInternalError("failed to store uploaded statement", err)
	}

	record := &transactionDatamodel.StatementUpload{
		ID:         id,
		Filename:   filename,
		FilePath:   path,
		Status:     transactionDatamodel.UploadStatusUploaded,
		UploadedAt: time.Now(),
	}
	if err := s.repo.Create(record); err != nil {
		os.Remove(path)
		s.logger.Error("failed to create upload session", "upload_id", id, "error", err)
		return nil, internal.NewInternalError("failed to create upload session", err)
	}

	if err := s.publisher.Publish(ctx, events.NewStatementUploadedEvent(id, path, filename)); err != nil {
		s.logger.Error("failed to publish upload event", "upload_id", id, "error", err)
	}

	s.logger.Info("statement accepted", "upload_id", id, "filename", filename, "size", size)
	return FromDataModel(record), nil
}

// Get returns the session's current status and counters.
func (s *Service) Get(ctx context.Context, id string) (*Upload, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, internal.ErrUploadNotFound
	}
	return FromDataModel(record), nil
}

// HandleStatementUploaded is the extraction stage. It is registered on the
// event bus for statement.uploaded and drives the session through
// extracting, matching and completed; a fatal extraction error parks it at
// failed with the reason recorded.
func (s *Service) HandleStatementUploaded(ctx context.Context, event events.Event) error {
	uploaded, ok := event.(*events.StatementUploadedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}
	defer os.Remove(uploaded.FilePath)

	if err := s.repo.UpdateStatus(uploaded.UploadID, transactionDatamodel.UploadStatusExtracting); err != nil {
		return err
	}

	records, stats, err := s.extractor.Extract(ctx, uploaded.FilePath, uploaded.UploadID)
	if err != nil {
		return s.fail(ctx, uploaded.UploadID, err)
	}

	persistCtx, cancel := internal.WithTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()
	if _, err := s.persister.PersistAll(persistCtx, records); err != nil {
		return s.fail(ctx, uploaded.UploadID, err)
	}

	now := time.Now()
	if err := s.repo.MarkExtracted(uploaded.UploadID, stats.Total, stats.Incomplete, stats.Credits, now); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, events.NewStatementExtractedEvent(uploaded.UploadID, stats.Total, stats.Incomplete, stats.Credits)); err != nil {
		s.logger.Error("failed to publish extraction event", "upload_id", uploaded.UploadID, "error", err)
	}

	if err := s.repo.UpdateStatus(uploaded.UploadID, transactionDatamodel.UploadStatusMatching); err != nil {
		return err
	}
	if err := s.matcher.Match(ctx, uploaded.UploadID); err != nil {
		return s.fail(ctx, uploaded.UploadID, err)
	}
	if err := s.repo.MarkCompleted(uploaded.UploadID, time.Now()); err != nil {
		return err
	}

	s.logger.Info("statement processed",
		"upload_id", uploaded.UploadID,
		"total", stats.Total,
		"incomplete", stats.Incomplete,
		"credits", stats.Credits)
	return nil
}

// ReprocessStuck re-drives uploads that never left the uploaded or
// extracting state, typically after a crash between accept and extraction.
// Sessions whose stored file is gone are marked failed instead.
func (s *Service) ReprocessStuck(ctx context.Context, olderThan time.Duration) (int, error) {
	stuck, err := s.repo.GetStuck(time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	reprocessed := 0
	for _, upload := range stuck {
		if _, err := os.Stat(upload.FilePath); err != nil {
			s.logger.Error("stuck upload has no stored file", "upload_id", upload.ID, "path", upload.FilePath)
			if err := s.repo.MarkFailed(upload.ID, "stored statement file is missing"); err != nil {
				s.logger.Error("failed to record failure", "upload_id", upload.ID, "error", err)
			}
			continue
		}

		event := events.NewStatementUploadedEvent(upload.ID, upload.FilePath, upload.Filename)
		if err := s.HandleStatementUploaded(ctx, event); err != nil {
			s.logger.Error("reprocessing failed", "upload_id", upload.ID, "error", err)
			continue
		}
		reprocessed++
	}
	return reprocessed, nil
}

func (s *Service) fail(ctx context.Context, uploadID string, cause error) error {
	s.logger.Error("statement processing failed", "upload_id", uploadID, "error", cause)
	if err := s.repo.MarkFailed(uploadID, cause.Error()); err != nil {
		s.logger.Error("failed to record failure", "upload_id", uploadID, "error", err)
	}
	if err := s.publisher.Publish(ctx, events.NewExtractionFailedEvent(uploadID, cause.Error())); err != nil {
		s.logger.Error("failed to publish failure event", "upload_id", uploadID, "error", err)
	}
	return cause
}

func (s *Service) storeTempFile(id string, content io.Reader) (string, error) {
	dir := s.cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, id+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
