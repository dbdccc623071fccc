package repository

import (
	"database/sql"
	"fmt"

	"github.com/seftonlabs/loanledger/internal/domain"
)

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Insert persists the candidates in a single transaction. A candidate whose
// xref already exists is silently skipped: first writer wins, and callers
// cannot observe how many rows were new. Any storage error aborts the whole
// batch.
func (r *TransactionRepo) Insert(records []domain.TransactionRecord) error {
	sqlTx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(
		`INSERT OR IGNORE INTO transactions
		(app_id, xref, settlement_date, broker, sub_broker, borrower_name,
		 description, total_loan_amount, commission_rate, upfront,
		 upfront_incl_gst)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		_, err := stmt.Exec(
			rec.AppID, rec.Xref, rec.SettlementDate, rec.Broker,
			rec.SubBroker, rec.BorrowerName, rec.Description,
			rec.TotalLoanAmount, rec.CommissionRate, rec.Upfront,
			rec.UpfrontInclGST,
		)
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Deduplicate keeps, for every (xref, total_loan_amount) group, the row
// with the smallest id and deletes the rest. Repeated calls are no-ops.
func (r *TransactionRepo) Deduplicate() error {
	_, err := r.db.Exec(
		`DELETE FROM transactions
		 WHERE id NOT IN (SELECT MIN(id)
		                  FROM transactions
		                  GROUP BY xref, total_loan_amount)`,
	)
	if err != nil {
		return fmt.Errorf("deduplicate: %w", err)
	}
	return nil
}

// ClassifyTiers recomputes tier_level for every row from the fixed loan
// amount breakpoints. Breakpoints are strict lower bounds, so a boundary
// amount falls into the lower tier.
func (r *TransactionRepo) ClassifyTiers() error {
	_, err := r.db.Exec(
		`UPDATE transactions
		 SET tier_level =
		     CASE
		         WHEN total_loan_amount > 100000 THEN 'Tier 1'
		         WHEN total_loan_amount > 50000 THEN 'Tier 2'
		         WHEN total_loan_amount > 10000 THEN 'Tier 3'
		         ELSE 'Tier 4'
		     END`,
	)
	if err != nil {
		return fmt.Errorf("classify tiers: %w", err)
	}
	return nil
}

// SumLoanAmount returns the sum of total_loan_amount over the inclusive
// settlement date range. The result is nil when no rows fall in the range,
// which is distinct from matching rows that sum to zero.
func (r *TransactionRepo) SumLoanAmount(startDate, endDate string) (*float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(
		`SELECT SUM(total_loan_amount) FROM transactions
		 WHERE settlement_date BETWEEN ? AND ?`,
		startDate, endDate,
	).Scan(&sum)
	if err != nil {
		return nil, fmt.Errorf("sum loan amount: %w", err)
	}
	if !sum.Valid {
		return nil, nil
	}
	return &sum.Float64, nil
}

// MaxLoanAmount returns the largest total_loan_amount for an exact broker
// name, or nil if the broker has no rows.
func (r *TransactionRepo) MaxLoanAmount(broker string) (*float64, error) {
	var max sql.NullFloat64
	err := r.db.QueryRow(
		`SELECT MAX(total_loan_amount) FROM transactions WHERE broker = ?`,
		broker,
	).Scan(&max)
	if err != nil {
		return nil, fmt.Errorf("max loan amount: %w", err)
	}
	if !max.Valid {
		return nil, nil
	}
	return &max.Float64, nil
}

func (r *TransactionRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}

// GetByXref returns the stored row for an xref, or sql.ErrNoRows.
func (r *TransactionRepo) GetByXref(xref string) (*domain.TransactionRecord, error) {
	var rec domain.TransactionRecord
	var tier sql.NullString

	err := r.db.QueryRow(
		`SELECT id, app_id, xref, settlement_date, broker, sub_broker,
		        borrower_name, description, total_loan_amount,
		        commission_rate, upfront, upfront_incl_gst, tier_level
		 FROM transactions WHERE xref = ?`, xref,
	).Scan(
		&rec.ID, &rec.AppID, &rec.Xref, &rec.SettlementDate, &rec.Broker,
		&rec.SubBroker, &rec.BorrowerName, &rec.Description,
		&rec.TotalLoanAmount, &rec.CommissionRate, &rec.Upfront,
		&rec.UpfrontInclGST, &tier,
	)
	if err != nil {
		return nil, err
	}
	if tier.Valid {
		rec.TierLevel = domain.TierLevel(tier.String)
	}
	return &rec, nil
}

// BrokerBucket is one row of a broker report: a time bucket (settlement
// date, week start, or year-month depending on the period) and the loan
// volume a broker settled in it.
type BrokerBucket struct {
	Bucket string  `json:"bucket"`
	Broker string  `json:"broker"`
	Total  float64 `json:"total_loan_amount"`
}

// BrokerTotalsDaily sums loan amounts per (settlement_date, broker) over
// all history, newest date first, largest amount first within a date.
func (r *TransactionRepo) BrokerTotalsDaily() ([]BrokerBucket, error) {
	return r.queryBrokerBuckets(
		`SELECT settlement_date, broker, SUM(total_loan_amount) AS total_loan_amount
		 FROM transactions
		 GROUP BY settlement_date, broker
		 ORDER BY settlement_date DESC, total_loan_amount DESC`,
	)
}

// BrokerTotalsWeekly sums loan amounts per (week, broker) for rows on or
// after the cutoff date. The bucket is the week-start date: the Sunday
// on or after the row's date, shifted back seven days.
func (r *TransactionRepo) BrokerTotalsWeekly(cutoff string) ([]BrokerBucket, error) {
	return r.queryBrokerBuckets(
		`SELECT strftime('%Y-%m-%d', settlement_date, 'weekday 0', '-7 days') AS week_start,
		        broker, SUM(total_loan_amount) AS total_loan_amount
		 FROM transactions
		 WHERE settlement_date >= ?
		 GROUP BY week_start, broker
		 ORDER BY week_start DESC, total_loan_amount DESC`,
		cutoff,
	)
}

// BrokerTotalsMonthly sums loan amounts per (year-month, broker) for rows
// on or after the cutoff date.
func (r *TransactionRepo) BrokerTotalsMonthly(cutoff string) ([]BrokerBucket, error) {
	return r.queryBrokerBuckets(
		`SELECT strftime('%Y-%m', settlement_date) AS month,
		        broker, SUM(total_loan_amount) AS total_loan_amount
		 FROM transactions
		 WHERE settlement_date >= ?
		 GROUP BY month, broker
		 ORDER BY month DESC, total_loan_amount DESC`,
		cutoff,
	)
}

func (r *TransactionRepo) queryBrokerBuckets(query string, args ...any) ([]BrokerBucket, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var buckets []BrokerBucket
	for rows.Next() {
		var b BrokerBucket
		if err := rows.Scan(&b.Bucket, &b.Broker, &b.Total); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// DateTotal is one point of the loan-amount-over-time report.
type DateTotal struct {
	SettlementDate string  `json:"settlement_date"`
	Total          float64 `json:"total_loan_amount"`
}

// LoanTotalsByDate sums loan amounts per settlement date over all history,
// oldest first, for trend charting.
func (r *TransactionRepo) LoanTotalsByDate() ([]DateTotal, error) {
	rows, err := r.db.Query(
		`SELECT settlement_date, SUM(total_loan_amount) AS total_loan_amount
		 FROM transactions
		 GROUP BY settlement_date
		 ORDER BY settlement_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var totals []DateTotal
	for rows.Next() {
		var dt DateTotal
		if err := rows.Scan(&dt.SettlementDate, &dt.Total); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}

// TierCount is one row of the tier report.
type TierCount struct {
	SettlementDate string `json:"settlement_date"`
	TierLevel      string `json:"tier_level"`
	Count          int    `json:"count"`
}

// TierCountsByDate counts rows per (settlement_date, tier_level) with
// whatever tier values are currently stored; rows never classified group
// under an empty tier.
func (r *TransactionRepo) TierCountsByDate() ([]TierCount, error) {
	rows, err := r.db.Query(
		`SELECT settlement_date, tier_level, COUNT(*) AS count
		 FROM transactions
		 GROUP BY settlement_date, tier_level
		 ORDER BY settlement_date ASC, tier_level ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var counts []TierCount
	for rows.Next() {
		var tc TierCount
		var tier sql.NullString
		if err := rows.Scan(&tc.SettlementDate, &tier, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tc.TierLevel = tier.String
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}
