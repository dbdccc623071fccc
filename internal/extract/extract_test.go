package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementPage = `Settlement Advice
App ID: A100
Xref: X1
Settlement Date: 2024-03-01
Broker: acme
Sub Broker: sub1
Borrower Name: Jane Doe
Description: Home loan
Total Loan Amount: 120000.00
Commission Rate: 0.65
Upfront: 780.00
Upfront Incl GST: 858.00
Page 1 of 3`

func TestPage_CompleteStatement(t *testing.T) {
	rec, ok := Page(statementPage)
	require.True(t, ok)

	assert.Equal(t, "A100", rec.AppID)
	assert.Equal(t, "X1", rec.Xref)
	assert.Equal(t, "2024-03-01", rec.SettlementDate)
	assert.Equal(t, "acme", rec.Broker)
	assert.Equal(t, "sub1", rec.SubBroker)
	assert.Equal(t, "Jane Doe", rec.BorrowerName)
	assert.Equal(t, "Home loan", rec.Description)
	assert.Equal(t, 120000.00, rec.TotalLoanAmount)
	assert.Equal(t, 0.65, rec.CommissionRate)
	assert.Equal(t, 780.00, rec.Upfront)
	assert.Equal(t, 858.00, rec.UpfrontInclGST)
	assert.Empty(t, rec.TierLevel, "tier is assigned post-hoc, never at extraction")
}

func TestPage_OrderIndependent(t *testing.T) {
	// Same fields as the reference page, shuffled and surrounded by noise.
	page := `Commission statement for the week
Upfront Incl GST: 858.00
Borrower Name: Jane Doe
Total Loan Amount: 120000.00
-- internal use only --
Broker: acme
App ID: A100
Settlement Date: 2024-03-01
Commission Rate: 0.65
Description: Home loan
Sub Broker: sub1
Upfront: 780.00
Xref: X1`

	rec, ok := Page(page)
	require.True(t, ok)
	assert.Equal(t, "X1", rec.Xref)
	assert.Equal(t, "acme", rec.Broker)
	assert.Equal(t, 120000.00, rec.TotalLoanAmount)
}

func TestPage_LabelSpacingVariants(t *testing.T) {
	page := `App  ID : A100
Xref : X1
Settlement  Date: 2024-03-01
Broker: acme
Sub  Broker: sub1
Borrower  Name: Jane Doe
Description : Home loan
Total  Loan  Amount: 120000.00
Commission  Rate: 0.65
Upfront : 780.00
Upfront  Incl  GST: 858.00`

	rec, ok := Page(page)
	require.True(t, ok)
	assert.Equal(t, "A100", rec.AppID)
	assert.Equal(t, "sub1", rec.SubBroker)
	assert.Equal(t, 858.00, rec.UpfrontInclGST)
}

func TestPage_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		missing string
	}{
		{
			name:    "missing xref",
			mutate:  func(p string) string { return replaceLine(p, "Xref: X1", "") },
			missing: "xref",
		},
		{
			name:    "missing upfront",
			mutate:  func(p string) string { return replaceLine(p, "Upfront: 780.00", "") },
			missing: "upfront",
		},
		{
			name: "bare integer loan amount",
			mutate: func(p string) string {
				return replaceLine(p, "Total Loan Amount: 120000.00", "Total Loan Amount: 120000")
			},
			missing: "total_loan_amount",
		},
		{
			name: "malformed settlement date",
			mutate: func(p string) string {
				return replaceLine(p, "Settlement Date: 2024-03-01", "Settlement Date: 01/03/2024")
			},
			missing: "settlement_date",
		},
		{
			name: "commission rate not decimal",
			mutate: func(p string) string {
				return replaceLine(p, "Commission Rate: 0.65", "Commission Rate: n/a")
			},
			missing: "commission_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := tt.mutate(statementPage)
			_, ok := Page(page)
			assert.False(t, ok, "page missing %s must be rejected whole", tt.missing)

			// Re-running on the same page never produces a record.
			_, ok = Page(page)
			assert.False(t, ok)
		})
	}
}

func TestPage_CoverPage(t *testing.T) {
	_, ok := Page("Acme Lending\nMonthly Commission Statement\nMarch 2024")
	assert.False(t, ok)
}

func TestPages_MultiPageDocument(t *testing.T) {
	second := replaceLine(statementPage, "Xref: X1", "Xref: X2")
	pages := []string{
		"Cover page, no transaction here",
		statementPage,
		"Continuation of previous page",
		second,
	}

	records := Pages(pages)
	require.Len(t, records, 2)
	assert.Equal(t, "X1", records[0].Xref, "page order preserved")
	assert.Equal(t, "X2", records[1].Xref)
}

func replaceLine(page, old, new string) string {
	if new == "" {
		return strings.ReplaceAll(page, old+"\n", "")
	}
	return strings.ReplaceAll(page, old, new)
}
