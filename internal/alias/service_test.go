package alias_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danrusdi/card-reconciliation/internal"
	"github.com/danrusdi/card-reconciliation/internal/alias"
	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
)

func TestAlias(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Alias Suite")
}

type mockAliasRepository struct {
	byName    map[string]*employeeDatamodel.EmployeeAlias
	employees map[int64]bool
	nextID    int64

	createErr error
	getErr    error
}

func newMockAliasRepository() *mockAliasRepository {
	return &mockAliasRepository{
		byName:    make(map[string]*employeeDatamodel.EmployeeAlias),
		employees: map[int64]bool{1: true, 2: true},
		nextID:    1,
	}
}

func (m *mockAliasRepository) Create(record *employeeDatamodel.EmployeeAlias) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, dup := m.byName[record.ExtractedName]; dup {
		return internal.ErrDuplicateAlias
	}
	record.ID = m.nextID
	m.nextID++
	m.byName[record.ExtractedName] = record
	return nil
}

func (m *mockAliasRepository) GetAll() ([]*employeeDatamodel.EmployeeAlias, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]*employeeDatamodel.EmployeeAlias, 0, len(m.byName))
	for _, a := range m.byName {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAliasRepository) GetByExtractedName(name string) (*employeeDatamodel.EmployeeAlias, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if a, ok := m.byName[name]; ok {
		return a, nil
	}
	return nil, nil
}

func (m *mockAliasRepository) Delete(id int64) error {
	for name, a := range m.byName {
		if a.ID == id {
			delete(m.byName, name)
			return nil
		}
	}
	return internal.ErrAliasNotFound
}

func (m *mockAliasRepository) EmployeeExists(id int64) (bool, error) {
	return m.employees[id], nil
}

var _ = Describe("AliasService", func() {
	var (
		service *alias.Service
		repo    *mockAliasRepository
	)

	BeforeEach(func() {
		repo = newMockAliasRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = alias.NewService(repo, logger)
	})

	Describe("Create", func() {
		It("should create an alias for an existing employee", func() {
			created, err := service.Create("WILLIAMBURT", 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.ExtractedName).To(Equal("WILLIAMBURT"))
			Expect(created.EmployeeID).To(Equal(int64(1)))
		})

		It("should reject a duplicate extracted name and keep exactly one entry", func() {
			_, err := service.Create("WILLIAMBURT", 1)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create("WILLIAMBURT", 2)
			Expect(err).To(Equal(internal.ErrDuplicateAlias))

			all, err := service.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].EmployeeID).To(Equal(int64(1)))
		})

		It("should reject a reference to an unknown employee", func() {
			_, err := service.Create("WILLIAMBURT", 999)
			Expect(err).To(Equal(internal.ErrUnknownEmployee))
		})

		It("should trim surrounding whitespace from the extracted name", func() {
			created, err := service.Create("  JDOE  ", 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ExtractedName).To(Equal("JDOE"))
		})

		It("should surface repository errors", func() {
			repo.createErr = errors.New("db down")
			_, err := service.Create("WILLIAMBURT", 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should return an empty list when no aliases exist", func() {
			all, err := service.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("should delete an existing alias", func() {
			created, err := service.Create("WILLIAMBURT", 1)
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(created.ID)).To(Succeed())

			all, _ := service.List()
			Expect(all).To(BeEmpty())
		})

		It("should fail with not found for an unknown id", func() {
			Expect(service.Delete(42)).To(Equal(internal.ErrAliasNotFound))
		})

		It("should fail again when deleting the same id twice", func() {
			created, err := service.Create("WILLIAMBURT", 1)
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(created.ID)).To(Succeed())
			Expect(service.Delete(created.ID)).To(Equal(internal.ErrAliasNotFound))
		})
	})

	Describe("ResolveExtractedName", func() {
		It("should resolve a mapped name to its employee id", func() {
			_, err := service.Create("JDOE", 2)
			Expect(err).ToNot(HaveOccurred())

			id, err := service.ResolveExtractedName("JDOE")
			Expect(err).ToNot(HaveOccurred())
			Expect(id).ToNot(BeNil())
			Expect(*id).To(Equal(int64(2)))
		})

		It("should return nil for an unmapped name", func() {
			id, err := service.ResolveExtractedName("UNKNOWN")
			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(BeNil())
		})
	})
})
