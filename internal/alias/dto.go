package alias

import (
	"strings"

	"github.com/danrusdi/card-reconciliation/internal"
)

// CreateAliasDTO is the request payload for mapping an extracted name to an
// employee.
type CreateAliasDTO struct {
	ExtractedName string `json:"extracted_name"`
	EmployeeID    int64  `json:"employee_id"`
}

func (dto CreateAliasDTO) Validate() error {
	if strings.TrimSpace(dto.ExtractedName) == "" {
		return internal.NewValidationError("extracted_name is required", internal.ErrCodeValidationFailed)
	}
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AliasesResponse struct {
	Aliases []*Alias `json:"aliases"`
}
