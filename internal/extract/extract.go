// Package extract turns the plain text of statement pages into candidate
// transaction records via labeled-field pattern matching.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/seftonlabs/loanledger/internal/domain"
)

// valueShape describes what a field's value looks like after its label.
type valueShape int

const (
	shapeWord   valueShape = iota // \w+, no embedded whitespace
	shapeDate                     // four-digit year, two-digit month and day
	shapeText                     // free text to end of line
	shapeAmount                   // decimal with a mandatory fractional part
)

var shapePatterns = map[valueShape]string{
	shapeWord:   `(\w+)`,
	shapeDate:   `(\d{4}-\d{2}-\d{2})`,
	shapeText:   `(.+)`,
	shapeAmount: `(\d+\.\d+)`,
}

// fieldSpec names one required labeled field. Adding a field to a
// statement layout is a change to this table, not new control flow.
type fieldSpec struct {
	name  string
	label string
	shape valueShape
}

var fieldSpecs = []fieldSpec{
	{"app_id", "App ID", shapeWord},
	{"xref", "Xref", shapeWord},
	{"settlement_date", "Settlement Date", shapeDate},
	{"broker", "Broker", shapeWord},
	{"sub_broker", "Sub Broker", shapeWord},
	{"borrower_name", "Borrower Name", shapeText},
	{"description", "Description", shapeText},
	{"total_loan_amount", "Total Loan Amount", shapeAmount},
	{"commission_rate", "Commission Rate", shapeAmount},
	{"upfront", "Upfront", shapeAmount},
	{"upfront_incl_gst", "Upfront Incl GST", shapeAmount},
}

var fieldPatterns = compileSpecs()

func compileSpecs() map[string]*regexp.Regexp {
	compiled := make(map[string]*regexp.Regexp, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		// Labels are case-sensitive; whitespace between label words and
		// before the colon is flexible.
		words := strings.Fields(spec.label)
		pattern := strings.Join(words, `\s*`) + `\s*:\s*` + shapePatterns[spec.shape]
		compiled[spec.name] = regexp.MustCompile(pattern)
	}
	return compiled
}

// Page attempts to extract one fully-populated transaction record from the
// plain text of a single page. Each field pattern searches the whole page
// independently and takes its first match, so field order on the page does
// not matter. If any required field is missing the whole page is rejected
// and ok is false; a page without transaction fields (cover sheet,
// continuation page) is expected input, not an error.
func Page(text string) (domain.TransactionRecord, bool) {
	values := make(map[string]string, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		m := fieldPatterns[spec.name].FindStringSubmatch(text)
		if m == nil {
			return domain.TransactionRecord{}, false
		}
		v := m[1]
		if spec.shape == shapeText {
			v = strings.TrimSpace(v)
		}
		values[spec.name] = v
	}

	rec := domain.TransactionRecord{
		AppID:          values["app_id"],
		Xref:           values["xref"],
		SettlementDate: values["settlement_date"],
		Broker:         values["broker"],
		SubBroker:      values["sub_broker"],
		BorrowerName:   values["borrower_name"],
		Description:    values["description"],
	}

	var err error
	if rec.TotalLoanAmount, err = strconv.ParseFloat(values["total_loan_amount"], 64); err != nil {
		return domain.TransactionRecord{}, false
	}
	if rec.CommissionRate, err = strconv.ParseFloat(values["commission_rate"], 64); err != nil {
		return domain.TransactionRecord{}, false
	}
	if rec.Upfront, err = strconv.ParseFloat(values["upfront"], 64); err != nil {
		return domain.TransactionRecord{}, false
	}
	if rec.UpfrontInclGST, err = strconv.ParseFloat(values["upfront_incl_gst"], 64); err != nil {
		return domain.TransactionRecord{}, false
	}

	return rec, true
}

// Pages runs Page over a document's pages in order and returns the
// candidates that matched. The result preserves page order but carries no
// page numbers; non-matching pages contribute nothing.
func Pages(pages []string) []domain.TransactionRecord {
	var records []domain.TransactionRecord
	for _, text := range pages {
		if rec, ok := Page(text); ok {
			records = append(records, rec)
		}
	}
	return records
}
