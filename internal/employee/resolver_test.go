package employee_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danrusdi/card-reconciliation/internal/employee"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

type mockDirectory struct {
	byName    map[string]int64
	lookupErr error
}

func (m *mockDirectory) GetIDByName(name string) (*int64, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if id, ok := m.byName[name]; ok {
		return &id, nil
	}
	return nil, nil
}

func (m *mockDirectory) Exists(id int64) (bool, error) {
	for _, v := range m.byName {
		if v == id {
			return true, nil
		}
	}
	return false, nil
}

type mockAliasLookup struct {
	byExtracted map[string]int64
	lookupErr   error
}

func (m *mockAliasLookup) ResolveExtractedName(name string) (*int64, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if id, ok := m.byExtracted[name]; ok {
		return &id, nil
	}
	return nil, nil
}

var _ = Describe("Resolver", func() {
	var (
		resolver  *employee.Resolver
		directory *mockDirectory
		aliases   *mockAliasLookup
	)

	BeforeEach(func() {
		directory = &mockDirectory{byName: map[string]int64{
			"JANE DOE": 1,
			"JOHN ROE": 2,
		}}
		aliases = &mockAliasLookup{byExtracted: map[string]int64{
			"JDOE": 2,
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = employee.NewResolver(directory, aliases, logger)
	})

	It("should prefer an exact directory match over any alias", func() {
		id, err := resolver.Resolve("JANE DOE")
		Expect(err).ToNot(HaveOccurred())
		Expect(id).ToNot(BeNil())
		Expect(*id).To(Equal(int64(1)))
	})

	It("should fall back to the alias table on a directory miss", func() {
		id, err := resolver.Resolve("JDOE")
		Expect(err).ToNot(HaveOccurred())
		Expect(id).ToNot(BeNil())
		Expect(*id).To(Equal(int64(2)))
	})

	It("should return nil for a name neither lookup knows", func() {
		id, err := resolver.Resolve("UNKNOWN")
		Expect(err).ToNot(HaveOccurred())
		Expect(id).To(BeNil())
	})

	It("should return nil for an empty name without consulting lookups", func() {
		directory.lookupErr = errors.New("should not be called")
		id, err := resolver.Resolve("")
		Expect(err).ToNot(HaveOccurred())
		Expect(id).To(BeNil())
	})

	It("should surface directory errors", func() {
		directory.lookupErr = errors.New("db down")
		_, err := resolver.Resolve("JANE DOE")
		Expect(err).To(HaveOccurred())
	})

	It("should surface alias lookup errors", func() {
		aliases.lookupErr = errors.New("db down")
		_, err := resolver.Resolve("JDOE")
		Expect(err).To(HaveOccurred())
	})
})
