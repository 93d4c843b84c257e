package postgres

import (
	"errors"

	"gorm.io/gorm"

	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
)

// EmployeeRepository implements the directory lookups using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetAll returns the active directory ordered by name, for the curation UI's
// employee picker.
func (r *EmployeeRepository) GetAll() ([]*employeeDatamodel.Employee, error) {
	var records []*employeeDatamodel.Employee
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&records).Error
	return records, err
}

// GetIDByName performs the exact-name directory lookup; the name column is
// unique-indexed so this is a single index probe.
func (r *EmployeeRepository) GetIDByName(name string) (*int64, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Select("id").Where("name = ?", name).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp.ID, nil
}

func (r *EmployeeRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
