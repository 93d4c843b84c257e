// Package pdftext pulls the text layer out of statement PDFs. Statements that
// carry no extractable text (scanned images) are rejected outright; there is
// no OCR fallback.
package pdftext

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/danrusdi/card-reconciliation/internal"
)

// PageSeparator joins page texts so downstream line splitting never glues the
// last line of one page to the first line of the next.
const PageSeparator = "\n"

type Acquirer struct {
	logger *slog.Logger
}

func NewAcquirer(logger *slog.Logger) *Acquirer {
	return &Acquirer{logger: logger}
}

// ExtractText returns all pages' text concatenated in page order. The file
// handle is released before returning, on success and failure alike.
func (a *Acquirer) ExtractText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat statement file: %w", err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("read pdf container: %w", err)
	}

	return a.collectPages(reader)
}

// ExtractTextFromBytes is the in-memory variant used when the caller already
// holds the upload body.
func (a *Acquirer) ExtractTextFromBytes(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read pdf container: %w", err)
	}

	return a.collectPages(reader)
}

func (a *Acquirer) collectPages(reader *pdf.Reader) (string, error) {
	var sb strings.Builder

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single undecodable page does not fail the document; the
			// emptiness check below decides whether anything was usable.
			a.logger.Warn("failed to extract page text", "page", i, "error", err)
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString(PageSeparator)
		}
		sb.WriteString(text)
	}

	return textOrScannedError(sb.String())
}

// textOrScannedError enforces the scanned-document rejection: a document whose
// concatenated text is empty after stripping has no text layer at all.
func textOrScannedError(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", internal.ErrScannedDocument
	}
	return text, nil
}
