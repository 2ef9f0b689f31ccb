package domain

import "github.com/shopspring/decimal"

// Origin identifies which source collection an invoice record came from.
type Origin string

const (
	OriginLedger   Origin = "ledger"
	OriginDocument Origin = "document"
)

// InvoiceRecord represents a single invoice from either source.
// Normalized fields are computed once by the adapter that builds the record;
// the engine treats records as immutable values and never writes to them.
type InvoiceRecord struct {
	Origin           Origin              `json:"origin"`
	InvoiceNumber    string              `json:"invoice_number"`
	NormalizedNumber string              `json:"normalized_number"`
	Vendor           string              `json:"vendor"`
	NormalizedVendor string              `json:"normalized_vendor"`
	Amount           decimal.NullDecimal `json:"amount"`
	Currency         string              `json:"currency"`
	InvoiceDate      string              `json:"invoice_date,omitempty"`

	// ProvenanceToken points back at the originating row or page. It is
	// used for claim bookkeeping and traceability, never for matching.
	ProvenanceToken string `json:"provenance_token"`
}

// AmountConsistency is the three-valued outcome of comparing two amounts.
// Unknown means at least one side carried no amount, which is a normal
// state for document-extracted records.
type AmountConsistency string

const (
	AmountConsistent   AmountConsistency = "consistent"
	AmountInconsistent AmountConsistency = "inconsistent"
	AmountUnknown      AmountConsistency = "unknown"
)

// AmountDifference is the always-defined difference between two amounts.
// Incomparable is set when either amount was absent; Value is zero when the
// amounts agree under the sign-flip convention.
type AmountDifference struct {
	Incomparable bool            `json:"incomparable"`
	Value        decimal.Decimal `json:"value"`
}

// Severity classifies a discrepancy. Material discrepancies demote a
// claimed pair to the mismatched partition; informational ones do not.
type Severity string

const (
	SeverityMaterial      Severity = "material"
	SeverityInformational Severity = "informational"
)

// Discrepancy records a per-field disagreement between a claimed pair.
type Discrepancy struct {
	Field         string            `json:"field"`
	LedgerValue   string            `json:"ledger_value"`
	DocumentValue string            `json:"document_value"`
	Severity      Severity          `json:"severity"`
	Difference    *AmountDifference `json:"difference,omitempty"`
}

// CandidatePair is a scored ledger/document pairing.
type CandidatePair struct {
	Ledger        InvoiceRecord `json:"ledger"`
	Document      InvoiceRecord `json:"document"`
	Confidence    float64       `json:"confidence"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// HasMaterialDiscrepancy reports whether any discrepancy on the pair is
// material.
func (p CandidatePair) HasMaterialDiscrepancy() bool {
	for _, d := range p.Discrepancies {
		if d.Severity == SeverityMaterial {
			return true
		}
	}
	return false
}
