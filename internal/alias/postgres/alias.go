package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/danrusdi/card-reconciliation/internal"
	"github.com/danrusdi/card-reconciliation/internal/alias"
	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
)

// AliasRepository implements alias.RepositoryAPI using GORM. The unique index
// on extracted_name is the authority on duplicates: violations coming back
// from the database are translated to ErrDuplicateAlias, which also covers
// concurrent creation races.
type AliasRepository struct {
	db *gorm.DB
}

func NewAliasRepository(db *gorm.DB) alias.RepositoryAPI {
	return &AliasRepository{db: db}
}

func (r *AliasRepository) Create(record *employeeDatamodel.EmployeeAlias) error {
	err := r.db.Create(record).Error
	if err != nil {
		if isUniqueViolation(err) {
			return internal.ErrDuplicateAlias
		}
		return err
	}
	return nil
}

func (r *AliasRepository) GetAll() ([]*employeeDatamodel.EmployeeAlias, error) {
	var records []*employeeDatamodel.EmployeeAlias
	err := r.db.Preload("Employee").Order("extracted_name ASC").Find(&records).Error
	return records, err
}

func (r *AliasRepository) GetByExtractedName(name string) (*employeeDatamodel.EmployeeAlias, error) {
	var record employeeDatamodel.EmployeeAlias
	err := r.db.Where("extracted_name = ?", name).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *AliasRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&employeeDatamodel.EmployeeAlias{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrAliasNotFound
	}
	return nil
}

func (r *AliasRepository) EmployeeExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation matches both the postgres duplicate-key error text and
// sqlite's UNIQUE constraint message, so repo tests on sqlite observe the
// same translation production does.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
