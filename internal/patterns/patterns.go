// Package patterns holds the compiled matcher set for statement text. All
// expressions are compiled once at construction and reused for the whole
// document; nothing here recompiles per line.
package patterns

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineCaptures are the raw sub-field captures of one transaction line, in the
// order the statement prints them. PostedDate, LevelCode and
// TransactionNumber are carried for debugging but not persisted.
type LineCaptures struct {
	Date              string
	PostedDate        string
	LevelCode         string
	TransactionNumber string
	MerchantText      string
	CategoryCode      string
	NumericBlock      string
	NetAmount         string
}

// Set is the reuse boundary for the compiled expressions.
type Set struct {
	employeeHeader *regexp.Regexp
	date           *regexp.Regexp
	amount         *regexp.Regexp
	amountExact    *regexp.Regexp
	transaction    *regexp.Regexp
	localitySplit  *regexp.Regexp

	categories map[string]string
}

// expenseCategories is the fixed vocabulary statements draw category tokens
// from. Keys are upper-cased for lookup, values are the canonical spelling.
var expenseCategories = []string{
	"Fuel",
	"Meals",
	"General Expense",
	"Hotel",
	"Legal",
	"Maintenance",
	"Misc. Transportation",
	"Business Services",
}

const (
	datePattern = `\d{1,2}/\d{1,2}/\d{4}`

	// amountPattern recognizes currency-like tokens: optional leading minus,
	// optional dollar sign, digit groups with optional thousands separators,
	// optional 2-digit decimals.
	amountPattern = `-?\$?\d{1,3}(?:,\d{3})*(?:\.\d{2})?|-?\$?\d+(?:\.\d{2})?`
)

func New() *Set {
	s := &Set{
		employeeHeader: regexp.MustCompile(`^\s*Cardholder Name:\s*([A-Z][A-Z .'\-]*?)\s*$`),
		date:           regexp.MustCompile(datePattern),
		amount:         regexp.MustCompile(amountPattern),
		amountExact:    regexp.MustCompile(`^(?:` + amountPattern + `)$`),
		localitySplit:  regexp.MustCompile(`^(.*?\S)\s+(\S+),\s*(.+)$`),

		// The master per-line grammar. The merchant/category free-text region
		// is lazy but bounded by the trailing run of numeric tokens and the
		// terminal net amount anchored at end of line, so embedded digits and
		// doubled letters inside the description cannot terminate it early.
		transaction: regexp.MustCompile(
			`^(` + datePattern + `)\s+` + // transaction date
				`(` + datePattern + `)\s+` + // posted date
				`([A-Z])\s+` + // level code
				`(\d{6,})\s+` + // transaction number
				`(.+?)\s+` + // merchant name and locality
				`([A-Z][A-Z0-9.&/\-]*)\s+` + // category code
				`((?:-?\$?\d[\d,]*(?:\.\d+)?\s+)*)` + // quantity / unit price / dollar fields
				`(-?\$?\d[\d,]*\.\d{2})\s*$`), // terminal net amount
	}

	s.categories = make(map[string]string, len(expenseCategories))
	for _, c := range expenseCategories {
		s.categories[strings.ToUpper(c)] = c
	}

	return s
}

// MatchEmployeeHeader recognizes a cardholder header line and returns the
// extracted name token.
func (s *Set) MatchEmployeeHeader(line string) (string, bool) {
	m := s.employeeHeader.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchDate returns the first M/D/YYYY or MM/DD/YYYY token in text.
func (s *Set) MatchDate(text string) (string, bool) {
	m := s.date.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// ParseDate converts a matched date token to a calendar date. Malformed input
// yields nil, never a panic or an error.
func (s *Set) ParseDate(dateStr string) *time.Time {
	t, err := time.Parse("1/2/2006", strings.TrimSpace(dateStr))
	if err != nil {
		return nil
	}
	return &t
}

// MatchAmount returns the first currency-like token in text.
func (s *Set) MatchAmount(text string) (string, bool) {
	m := s.amount.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// ParseAmount converts an amount token to a signed decimal with two
// fractional digits. Malformed input yields nil, never a panic; the sign is
// preserved.
func (s *Set) ParseAmount(amountStr string) *decimal.Decimal {
	token := strings.TrimSpace(amountStr)
	if !s.amountExact.MatchString(token) {
		return nil
	}

	negative := strings.HasPrefix(token, "-")
	token = strings.TrimPrefix(token, "-")
	token = strings.TrimPrefix(token, "$")
	token = strings.ReplaceAll(token, ",", "")

	d, err := decimal.NewFromString(token)
	if err != nil {
		return nil
	}
	if negative {
		d = d.Neg()
	}
	d = d.Round(2)
	return &d
}

// MatchExpenseCategory recognizes a token from the fixed category vocabulary
// and returns its canonical spelling. Character-doubled artifacts of the PDF
// text layer ("MMEEAALLSS") are recognized as their single-letter form; the
// doubled text itself is never rewritten anywhere else.
func (s *Set) MatchExpenseCategory(text string) (string, bool) {
	candidate := strings.ToUpper(strings.TrimSpace(text))
	if canonical, ok := s.categories[candidate]; ok {
		return canonical, true
	}
	if halved, ok := undouble(candidate); ok {
		if canonical, ok := s.categories[halved]; ok {
			return canonical, true
		}
	}
	return "", false
}

// undouble halves a string in which every character appears exactly twice in
// a row. Returns false when the string is not of that form.
func undouble(text string) (string, bool) {
	runes := []rune(text)
	if len(runes) == 0 || len(runes)%2 != 0 {
		return "", false
	}
	halved := make([]rune, 0, len(runes)/2)
	for i := 0; i < len(runes); i += 2 {
		if runes[i] != runes[i+1] {
			return "", false
		}
		halved = append(halved, runes[i])
	}
	return string(halved), true
}

// MatchTransactionLine applies the master per-line grammar. It returns false
// for anything that does not open with two date tokens, a level code and a
// transaction number; sub-field parse failures downstream never make a
// matched line unmatch.
func (s *Set) MatchTransactionLine(line string) (*LineCaptures, bool) {
	m := s.transaction.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return &LineCaptures{
		Date:              m[1],
		PostedDate:        m[2],
		LevelCode:         m[3],
		TransactionNumber: m[4],
		MerchantText:      m[5],
		CategoryCode:      m[6],
		NumericBlock:      strings.TrimSpace(m[7]),
		NetAmount:         m[8],
	}, true
}

// SplitMerchant separates a business name from a trailing "CITY, ST" token at
// the first comma boundary. When no comma is present the whole capture is the
// merchant name and the locality stays nil; merchants that absorb part of a
// city name without a comma are a known limitation and are left untouched so
// the raw line remains correctable downstream.
func (s *Set) SplitMerchant(text string) (string, *string) {
	trimmed := strings.TrimSpace(text)
	m := s.localitySplit.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed, nil
	}
	name := strings.TrimSpace(m[1])
	locality := m[2] + ", " + strings.TrimSpace(m[3])
	return name, &locality
}
