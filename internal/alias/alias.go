package alias

import (
	"time"

	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
)

// Alias is the domain view of one extracted-name mapping, joined with enough
// employee detail for display.
type Alias struct {
	ID            int64     `json:"id"`
	ExtractedName string    `json:"extracted_name"`
	EmployeeID    int64     `json:"employee_id"`
	EmployeeName  string    `json:"employee_name,omitempty"`
	EmployeeEmail string    `json:"employee_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromDataModel(a *employeeDatamodel.EmployeeAlias) *Alias {
	out := &Alias{
		ID:            a.ID,
		ExtractedName: a.ExtractedName,
		EmployeeID:    a.EmployeeID,
		CreatedAt:     a.CreatedAt,
	}
	if a.Employee != nil {
		out.EmployeeName = a.Employee.Name
		out.EmployeeEmail = a.Employee.Email
	}
	return out
}

func FromDataModelSlice(aliases []*employeeDatamodel.EmployeeAlias) []*Alias {
	result := make([]*Alias, len(aliases))
	for i, a := range aliases {
		result[i] = FromDataModel(a)
	}
	return result
}
