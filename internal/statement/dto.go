package statement

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danrusdi/card-reconciliation/internal"
)

// UploadAcceptedResponse is the 202 body returned for an accepted statement.
type UploadAcceptedResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// ValidateUpload checks filename and declared size before any bytes are
// written to disk.
func ValidateUpload(filename string, size, maxBytes int64) error {
	if strings.TrimSpace(filename) == "" {
		return internal.NewValidationError("filename is required", internal.ErrCodeInvalidUpload)
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".pdf" {
		return internal.NewValidationError("only PDF statements are accepted", internal.ErrCodeInvalidUpload)
	}
	if size <= 0 {
		return internal.NewValidationError("uploaded file is empty", internal.ErrCodeInvalidUpload)
	}
	if maxBytes > 0 && size > maxBytes {
		return internal.NewValidationError(
			fmt.Sprintf("uploaded file exceeds the %d byte limit", maxBytes),
			internal.ErrCodeFileTooLarge)
	}
	return nil
}

// Summary renders the post-extraction one-liner for logs and API clients.
func (u *Upload) Summary() string {
	return fmt.Sprintf("%d extracted, %d incomplete, %d credits",
		u.TotalRecords, u.IncompleteRecords, u.CreditRecords)
}
