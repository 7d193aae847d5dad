package entity

import (
	"time"

	"github.com/google/uuid"
)

// PolicyRecord is the struct-valued output of document extraction.
// Every field is a string that defaults to empty when not found; absence is
// represented as emptiness, never as a nil pointer, so drafts are always
// safe to render and edit.
type PolicyRecord struct {
	Category        string `json:"category"`
	Carrier         string `json:"carrier"`
	PolicyNumber    string `json:"policy_number"`
	Name            string `json:"name"`
	Insured         string `json:"insured"`
	StartDate       string `json:"start_date"`
	CoverageAmount  string `json:"coverage_amount"`
	AnnualPremium   string `json:"annual_premium"`
	PaymentYears    string `json:"payment_years"`
	Beneficiary     string `json:"beneficiary"`
	InterestRate    string `json:"interest_rate"`
	Currency        string `json:"currency"`
	ExchangeRate    string `json:"exchange_rate"`
	ConvertedAmount string `json:"converted_amount"`
}

// FieldCount is the number of extractable fields in a PolicyRecord.
const FieldCount = 14

func (r PolicyRecord) fields() [FieldCount]string {
	return [FieldCount]string{
		r.Category, r.Carrier, r.PolicyNumber, r.Name, r.Insured,
		r.StartDate, r.CoverageAmount, r.AnnualPremium, r.PaymentYears,
		r.Beneficiary, r.InterestRate, r.Currency, r.ExchangeRate,
		r.ConvertedAmount,
	}
}

// FilledCount returns the number of non-empty fields.
func (r PolicyRecord) FilledCount() int {
	n := 0
	for _, f := range r.fields() {
		if f != "" {
			n++
		}
	}
	return n
}

// Completeness returns filled-field-count / total-field-count in [0,1].
// Low values hint at photos that need a retake.
func (r PolicyRecord) Completeness() float64 {
	return float64(r.FilledCount()) / float64(FieldCount)
}

// IsEmpty reports whether extraction found nothing at all.
func (r PolicyRecord) IsEmpty() bool {
	return r.FilledCount() == 0
}

// Policy is a reviewed, persisted policy record.
type Policy struct {
	ID           uuid.UUID    `json:"id"`
	PolicyRecord              // embedded draft fields
	Source       string       `json:"source"` // "scan" | "manual"
	Completeness float64      `json:"completeness"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ScanJob records one pipeline invocation for audit and retry hints.
type ScanJob struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	Status      string    `json:"status"`
	Rotation    int       `json:"rotation"`
	LineCount   int       `json:"line_count"`
	RecordCount int       `json:"record_count"`
	ErrorText   string    `json:"error_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
