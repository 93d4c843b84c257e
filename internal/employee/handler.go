package employee

import (
	"net/http"

	employeeDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/employee"
	"github.com/danrusdi/card-reconciliation/internal/transport"
)

// DirectoryLister is the read surface backing the employee picker.
type DirectoryLister interface {
	GetAll() ([]*employeeDatamodel.Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Directory DirectoryLister
}

func NewHandler(baseHandler *transport.BaseHandler, directory DirectoryLister) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Directory:   directory,
	}
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	records, err := h.Directory.GetAll()
	if err != nil {
		h.Logger.Error("ListEmployees: directory error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	employees := make([]*Employee, len(records))
	for i, record := range records {
		employees[i] = FromDataModel(record)
	}

	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}
