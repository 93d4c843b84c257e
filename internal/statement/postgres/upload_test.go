package postgres_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	transactionDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/transaction"
	statementPostgres "github.com/danrusdi/card-reconciliation/internal/statement/postgres"
)

func TestStatementPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Statement Postgres Suite")
}

// SQLite-compatible model for testing
type SQLiteStatementUpload struct {
	ID                string     `gorm:"column:id;primaryKey"`
	Filename          string     `gorm:"column:filename;not null"`
	FilePath          string     `gorm:"column:file_path"`
	Status            string     `gorm:"column:status"`
	TotalRecords      int        `gorm:"column:total_records"`
	IncompleteRecords int        `gorm:"column:incomplete_records"`
	CreditRecords     int        `gorm:"column:credit_records"`
	ErrorMessage      *string    `gorm:"column:error_message"`
	UploadedAt        time.Time  `gorm:"column:uploaded_at"`
	ExtractedAt       *time.Time `gorm:"column:extracted_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (SQLiteStatementUpload) TableName() string {
	return "statement_uploads"
}

var _ = Describe("Upload PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *statementPostgres.UploadRepository
	)

	newUpload := func(status string) *transactionDatamodel.StatementUpload {
		return &transactionDatamodel.StatementUpload{
			ID:         uuid.New().String(),
			Filename:   "march.pdf",
			FilePath:   "/tmp/statements/march.pdf",
			Status:     status,
			UploadedAt: time.Now(),
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteStatementUpload{})
		Expect(err).NotTo(HaveOccurred())

		repo = statementPostgres.NewUploadRepository(db)
	})

	Describe("GetByID", func() {
		It("should return the stored session", func() {
			upload := newUpload(transactionDatamodel.UploadStatusUploaded)
			Expect(repo.Create(upload)).To(Succeed())

			found, err := repo.GetByID(upload.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.Filename).To(Equal("march.pdf"))
			Expect(found.Status).To(Equal(transactionDatamodel.UploadStatusUploaded))
		})

		It("should return nil for an unknown id", func() {
			found, err := repo.GetByID(uuid.New().String())
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should treat a non-uuid id as not found instead of erroring", func() {
			found, err := repo.GetByID("abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("status transitions", func() {
		It("should record extraction counters and completion", func() {
			upload := newUpload(transactionDatamodel.UploadStatusUploaded)
			Expect(repo.Create(upload)).To(Succeed())

			Expect(repo.UpdateStatus(upload.ID, transactionDatamodel.UploadStatusExtracting)).To(Succeed())
			Expect(repo.MarkExtracted(upload.ID, 12, 3, 1, time.Now())).To(Succeed())
			Expect(repo.MarkCompleted(upload.ID, time.Now())).To(Succeed())

			found, err := repo.GetByID(upload.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(transactionDatamodel.UploadStatusCompleted))
			Expect(found.TotalRecords).To(Equal(12))
			Expect(found.IncompleteRecords).To(Equal(3))
			Expect(found.CreditRecords).To(Equal(1))
			Expect(found.ExtractedAt).NotTo(BeNil())
			Expect(found.CompletedAt).NotTo(BeNil())
		})

		It("should record the failure reason", func() {
			upload := newUpload(transactionDatamodel.UploadStatusExtracting)
			Expect(repo.Create(upload)).To(Succeed())

			Expect(repo.MarkFailed(upload.ID, "stored statement file is missing")).To(Succeed())

			found, err := repo.GetByID(upload.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(transactionDatamodel.UploadStatusFailed))
			Expect(found.ErrorMessage).NotTo(BeNil())
			Expect(*found.ErrorMessage).To(Equal("stored statement file is missing"))
		})
	})

	Describe("GetStuck", func() {
		It("should only return stale uploaded or extracting sessions", func() {
			stale := newUpload(transactionDatamodel.UploadStatusExtracting)
			fresh := newUpload(transactionDatamodel.UploadStatusUploaded)
			done := newUpload(transactionDatamodel.UploadStatusCompleted)
			for _, u := range []*transactionDatamodel.StatementUpload{stale, fresh, done} {
				Expect(repo.Create(u)).To(Succeed())
			}

			backdated := time.Now().Add(-time.Hour)
			Expect(db.Exec("UPDATE statement_uploads SET updated_at = ? WHERE id = ?", backdated, stale.ID).Error).To(Succeed())
			Expect(db.Exec("UPDATE statement_uploads SET updated_at = ? WHERE id = ?", backdated, done.ID).Error).To(Succeed())

			stuck, err := repo.GetStuck(time.Now().Add(-time.Minute))
			Expect(err).NotTo(HaveOccurred())
			Expect(stuck).To(HaveLen(1))
			Expect(stuck[0].ID).To(Equal(stale.ID))
		})
	})
})
