package domain

type TierLevel string

const (
	Tier1 TierLevel = "Tier 1"
	Tier2 TierLevel = "Tier 2"
	Tier3 TierLevel = "Tier 3"
	Tier4 TierLevel = "Tier 4"
)

// TransactionRecord is one settled loan transaction extracted from a
// commission statement page. SettlementDate stays an ISO-8601 date string
// so range comparisons in the store remain lexicographic.
type TransactionRecord struct {
	ID              int64   `json:"id,omitempty"`
	AppID           string  `json:"app_id"`
	Xref            string  `json:"xref"`
	SettlementDate  string  `json:"settlement_date"`
	Broker          string  `json:"broker"`
	SubBroker       string  `json:"sub_broker"`
	BorrowerName    string  `json:"borrower_name"`
	Description     string  `json:"description"`
	TotalLoanAmount float64 `json:"total_loan_amount"`
	CommissionRate  float64 `json:"commission_rate"`
	Upfront         float64 `json:"upfront"`
	UpfrontInclGST  float64 `json:"upfront_incl_gst"`

	// TierLevel is empty until a classification pass has run.
	TierLevel TierLevel `json:"tier_level,omitempty"`
}
