package alias

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/danrusdi/card-reconciliation/internal/transport"
)

type ServiceAPI interface {
	Create(extractedName string, employeeID int64) (*Alias, error)
	List() ([]*Alias, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateAlias(w http.ResponseWriter, r *http.Request) {
	var dto CreateAliasDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateAlias: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(dto.ExtractedName, dto.EmployeeID)
	if err != nil {
		h.Logger.Error("CreateAlias: service error", "error", err, "extracted_name", dto.ExtractedName)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.Service.List()
	if err != nil {
		h.Logger.Error("ListAliases: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	if aliases == nil {
		aliases = []*Alias{}
	}

	h.WriteJSON(w, http.StatusOK, AliasesResponse{Aliases: aliases})
}

func (h *Handler) DeleteAlias(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("DeleteAlias: invalid alias ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid alias ID")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeleteAlias: service error", "error", err, "alias_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
