package statement

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/danrusdi/card-reconciliation/internal/transport"
)

type ServiceAPI interface {
	Upload(ctx context.Context, filename string, content io.Reader, size int64) (*Upload, error)
	Get(ctx context.Context, id string) (*Upload, error)
}

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	MaxFileBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxFileBytes int64) *Handler {
	return &Handler{
		BaseHandler:  baseHandler,
		Service:      service,
		MaxFileBytes: maxFileBytes,
	}
}

// UploadStatement accepts a multipart statement PDF under the "statement"
// field and answers 202 with the session id. Extraction and matching happen
// after the response.
func (h *Handler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	if h.MaxFileBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxFileBytes)
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		h.Logger.Error("UploadStatement: missing statement file", "error", err)
		h.WriteError(w, http.StatusBadRequest, "multipart field 'statement' is required")
		return
	}
	defer file.Close()

	upload, err := h.Service.Upload(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		h.Logger.Error("UploadStatement: service error", "error", err, "filename", header.Filename)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusAccepted, UploadAcceptedResponse{
		ID:       upload.ID,
		Filename: upload.Filename,
		Status:   upload.Status,
	})
}

func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "upload ID is required")
		return
	}

	upload, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetStatement: service error", "error", err, "upload_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, upload)
}
