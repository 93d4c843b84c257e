package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/danrusdi/card-reconciliation/internal"
	"github.com/danrusdi/card-reconciliation/internal/alias"
	aliasPostgres "github.com/danrusdi/card-reconciliation/internal/alias/postgres"
	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
)

func TestAliasPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Alias Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteEmployee struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (SQLiteEmployee) TableName() string {
	return "employees"
}

type SQLiteEmployeeAlias struct {
	ID            int64     `gorm:"primaryKey"`
	ExtractedName string    `gorm:"column:extracted_name;uniqueIndex;not null"`
	EmployeeID    int64     `gorm:"column:employee_id;not null;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (SQLiteEmployeeAlias) TableName() string {
	return "employee_aliases"
}

var _ = Describe("Alias PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo alias.RepositoryAPI
		jane *SQLiteEmployee
		john *SQLiteEmployee
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteEmployee{}, &SQLiteEmployeeAlias{})
		Expect(err).NotTo(HaveOccurred())

		jane = &SQLiteEmployee{Name: "JANE DOE", Email: "jane@corp.example", IsActive: true}
		john = &SQLiteEmployee{Name: "JOHN ROE", Email: "john@corp.example", IsActive: true}
		Expect(db.Create(jane).Error).NotTo(HaveOccurred())
		Expect(db.Create(john).Error).NotTo(HaveOccurred())

		repo = aliasPostgres.NewAliasRepository(db)
	})

	Describe("Create", func() {
		It("should create a new alias", func() {
			record := &employeeDatamodel.EmployeeAlias{
				ExtractedName: "JDOE",
				EmployeeID:    john.ID,
			}
			err := repo.Create(record)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.ID).To(BeNumerically(">", 0))
		})

		It("should translate a unique violation into ErrDuplicateAlias", func() {
			first := &employeeDatamodel.EmployeeAlias{ExtractedName: "JDOE", EmployeeID: john.ID}
			Expect(repo.Create(first)).NotTo(HaveOccurred())

			second := &employeeDatamodel.EmployeeAlias{ExtractedName: "JDOE", EmployeeID: jane.ID}
			err := repo.Create(second)
			Expect(err).To(Equal(internal.ErrDuplicateAlias))

			var count int64
			db.Model(&SQLiteEmployeeAlias{}).Where("extracted_name = ?", "JDOE").Count(&count)
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetByExtractedName", func() {
		It("should find an alias by its exact extracted name", func() {
			Expect(repo.Create(&employeeDatamodel.EmployeeAlias{
				ExtractedName: "WILLIAMBURT",
				EmployeeID:    jane.ID,
			})).NotTo(HaveOccurred())

			found, err := repo.GetByExtractedName("WILLIAMBURT")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.EmployeeID).To(Equal(jane.ID))
		})

		It("should return nil for an unknown name", func() {
			found, err := repo.GetByExtractedName("NOBODY")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should not match a different casing", func() {
			Expect(repo.Create(&employeeDatamodel.EmployeeAlias{
				ExtractedName: "WILLIAMBURT",
				EmployeeID:    jane.ID,
			})).NotTo(HaveOccurred())

			found, err := repo.GetByExtractedName("williamburt")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("GetAll", func() {
		It("should list aliases ordered by extracted name with the employee preloaded", func() {
			Expect(repo.Create(&employeeDatamodel.EmployeeAlias{ExtractedName: "WILLIAMBURT", EmployeeID: jane.ID})).NotTo(HaveOccurred())
			Expect(repo.Create(&employeeDatamodel.EmployeeAlias{ExtractedName: "JDOE", EmployeeID: john.ID})).NotTo(HaveOccurred())

			records, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].ExtractedName).To(Equal("JDOE"))
			Expect(records[1].ExtractedName).To(Equal("WILLIAMBURT"))
			Expect(records[0].Employee).NotTo(BeNil())
			Expect(records[0].Employee.Name).To(Equal("JOHN ROE"))
		})

		It("should return an empty slice when no aliases exist", func() {
			records, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("should delete an existing alias", func() {
			record := &employeeDatamodel.EmployeeAlias{ExtractedName: "JDOE", EmployeeID: john.ID}
			Expect(repo.Create(record)).NotTo(HaveOccurred())

			Expect(repo.Delete(record.ID)).To(Succeed())

			found, err := repo.GetByExtractedName("JDOE")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should return ErrAliasNotFound for an unknown id", func() {
			Expect(repo.Delete(12345)).To(Equal(internal.ErrAliasNotFound))
		})

		It("should return ErrAliasNotFound on a repeated delete", func() {
			record := &employeeDatamodel.EmployeeAlias{ExtractedName: "JDOE", EmployeeID: john.ID}
			Expect(repo.Create(record)).NotTo(HaveOccurred())

			Expect(repo.Delete(record.ID)).To(Succeed())
			Expect(repo.Delete(record.ID)).To(Equal(internal.ErrAliasNotFound))
		})
	})

	Describe("EmployeeExists", func() {
		It("should report existing and missing employees", func() {
			exists, err := repo.EmployeeExists(jane.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.EmployeeExists(99999)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
