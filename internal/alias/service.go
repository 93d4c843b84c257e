package alias

import (
	"log/slog"
	"strings"

	"github.com/danrusdi/card-reconciliation/internal"

	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
)

// RepositoryAPI is the persistence contract for the alias table. Create must
// rely on the storage layer's uniqueness guarantee so concurrent duplicate
// creation is rejected there, not assumed away here.
type RepositoryAPI interface {
	Create(alias *employeeDatamodel.EmployeeAlias) error
	GetAll() ([]*employeeDatamodel.EmployeeAlias, error)
	GetByExtractedName(name string) (*employeeDatamodel.EmployeeAlias, error)
	Delete(id int64) error
	EmployeeExists(id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create maps an extracted name to an employee. The extracted name is stored
// verbatim; matching against it later is exact-string.
func (s *Service) Create(extractedName string, employeeID int64) (*Alias, error) {
	extractedName = strings.TrimSpace(extractedName)

	exists, err := s.repo.EmployeeExists(employeeID)
	if err != nil {
		s.logger.Error("failed to check employee existence", "employee_id", employeeID, "error", err)
		return nil, err
	}
	if !exists {
		s.logger.Warn("alias creation rejected: unknown employee", "employee_id", employeeID)
		return nil, internal.ErrUnknownEmployee
	}

	record := &employeeDatamodel.EmployeeAlias{
		ExtractedName: extractedName,
		EmployeeID:    employeeID,
	}
	if err := s.repo.Create(record); err != nil {
		s.logger.Warn("alias creation failed", "extracted_name", extractedName, "error", err)
		return nil, err
	}

	s.logger.Info("alias created",
		"alias_id", record.ID,
		"extracted_name", extractedName,
		"employee_id", employeeID)

	return FromDataModel(record), nil
}

// List returns every alias joined with employee display detail. An empty
// table is a valid, empty result.
func (s *Service) List() ([]*Alias, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list aliases", "error", err)
		return nil, err
	}
	return FromDataModelSlice(records), nil
}

// Delete removes an alias by id. Deleting an absent id fails with
// ErrAliasNotFound, including a repeat delete after a successful one.
func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		s.logger.Warn("alias deletion failed", "alias_id", id, "error", err)
		return err
	}
	s.logger.Info("alias deleted", "alias_id", id)
	return nil
}

// ResolveExtractedName is the lookup the employee resolver consults after a
// directory miss.
func (s *Service) ResolveExtractedName(name string) (*int64, error) {
	record, err := s.repo.GetByExtractedName(name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return &record.EmployeeID, nil
}
