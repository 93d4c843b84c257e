// Package extractor walks acquired statement text and turns every line the
// transaction grammar matches into an ExtractedTransaction record.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	transactionDatamodel "github.com/danrusdi/card-reconciliation/internal/core/datamodel/transaction"
	"github.com/danrusdi/card-reconciliation/internal/patterns"
)

// TextAcquirer produces the text layer of a statement document.
type TextAcquirer interface {
	ExtractText(path string) (string, error)
}

// EmployeeResolver maps an extracted cardholder name to a directory employee.
type EmployeeResolver interface {
	Resolve(extractedName string) (*int64, error)
}

// Stats summarizes one extraction pass.
type Stats struct {
	Total      int
	Incomplete int
	Credits    int
}

// Extractor runs the per-document extraction pipeline. A matched line is
// never dropped: sub-field parse failures leave nil fields, and a panic while
// assembling a record is contained to that line.
type Extractor struct {
	acquirer TextAcquirer
	patterns *patterns.Set
	resolver EmployeeResolver
	logger   *slog.Logger
}

func NewExtractor(acquirer TextAcquirer, patternSet *patterns.Set, resolver EmployeeResolver, logger *slog.Logger) *Extractor {
	return &Extractor{
		acquirer: acquirer,
		patterns: patternSet,
		resolver: resolver,
		logger:   logger,
	}
}

// Extract acquires the document text once and walks it line by line. A
// cardholder header line sets the current employee for every transaction
// line after it, until the next header. Acquisition failures (including
// scanned documents) abort the pass; nothing else does.
func (e *Extractor) Extract(ctx context.Context, pdfPath string, uploadID string) ([]*transactionDatamodel.ExtractedTransaction, Stats, error) {
	text, err := e.acquirer.ExtractText(pdfPath)
	if err != nil {
		return nil, Stats{}, err
	}
	return e.ExtractFromText(ctx, text, uploadID)
}

// ExtractFromText runs the line walk over already-acquired text.
func (e *Extractor) ExtractFromText(ctx context.Context, text string, uploadID string) ([]*transactionDatamodel.ExtractedTransaction, Stats, error) {
	var (
		records         []*transactionDatamodel.ExtractedTransaction
		stats           Stats
		currentEmployee *int64
		currentName     string
	)

	for _, rawLine := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}

		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if name, ok := e.patterns.MatchEmployeeHeader(line); ok {
			id, err := e.resolver.Resolve(name)
			if err != nil {
				return nil, Stats{}, err
			}
			currentEmployee = id
			currentName = name
			continue
		}

		captures, ok := e.patterns.MatchTransactionLine(line)
		if !ok {
			continue
		}

		record := e.buildRecord(line, captures, currentEmployee, uploadID)
		if record.Incomplete {
			stats.Incomplete++
			e.logger.Debug("incomplete record",
				"upload_id", uploadID,
				"cardholder", currentName,
				"line", line)
		}
		if record.IsCredit {
			stats.Credits++
		}
		records = append(records, record)
		stats.Total++
	}

	e.logger.Info("extraction pass finished",
		"upload_id", uploadID,
		"total", stats.Total,
		"incomplete", stats.Incomplete,
		"credits", stats.Credits)

	return records, stats, nil
}

// buildRecord assembles one record from the line captures. The recover
// boundary is per line: a panic in any sub-field parser yields a
// maximally-incomplete record carrying the original text and the panic
// message, and the walk moves on.
func (e *Extractor) buildRecord(line string, captures *patterns.LineCaptures, employeeID *int64, uploadID string) (record *transactionDatamodel.ExtractedTransaction) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("record assembly panicked", "upload_id", uploadID, "line", line, "panic", r)
			msg := fmt.Sprintf("record assembly panicked: %v", r)
			record = &transactionDatamodel.ExtractedTransaction{
				UploadID:      uploadID,
				Incomplete:    true,
				RawSourceText: line,
				ParseError:    &msg,
			}
		}
	}()

	record = &transactionDatamodel.ExtractedTransaction{
		UploadID:      uploadID,
		EmployeeID:    employeeID,
		RawSourceText: line,
	}

	record.TransactionDate = e.patterns.ParseDate(captures.Date)
	record.Amount = e.patterns.ParseAmount(captures.NetAmount)

	if category, ok := e.patterns.MatchExpenseCategory(captures.CategoryCode); ok {
		record.ExpenseCategory = &category
	}

	name, locality := e.patterns.SplitMerchant(captures.MerchantText)
	if name != "" {
		record.MerchantName = &name
	}
	record.MerchantLocality = locality

	record.Incomplete = record.TransactionDate == nil ||
		record.Amount == nil ||
		record.EmployeeID == nil ||
		record.MerchantName == nil
	record.IsCredit = record.Amount != nil && record.Amount.IsNegative()

	return record
}
