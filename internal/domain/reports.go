package domain

import "sort"

// Summary provides high-level statistics of the reconciliation run.
type Summary struct {
	TotalLedgerProcessed    int     `json:"total_ledger_processed"`
	TotalDocumentsProcessed int     `json:"total_documents_processed"`
	Matched                 int     `json:"matched"`
	Mismatched              int     `json:"mismatched"`
	UnmatchedLedger         int     `json:"unmatched_ledger"`
	UnmatchedDocuments      int     `json:"unmatched_documents"`
	MatchRate               float64 `json:"match_rate"`
}

// ReconciliationResult partitions every input record into exactly one
// bucket: matched (claimed, no material discrepancy), mismatched (claimed,
// at least one material discrepancy), or unmatched on either side.
type ReconciliationResult struct {
	Summary            Summary         `json:"summary"`
	Matched            []CandidatePair `json:"matched"`
	Mismatched         []CandidatePair `json:"mismatched"`
	UnmatchedLedger    []InvoiceRecord `json:"unmatched_ledger"`
	UnmatchedDocuments []InvoiceRecord `json:"unmatched_documents"`
}

// VendorSummary breaks a finished result down by normalized vendor name.
type VendorSummary struct {
	Vendor             string  `json:"vendor"`
	LedgerCount        int     `json:"ledger_count"`
	DocumentCount      int     `json:"document_count"`
	Matched            int     `json:"matched"`
	Mismatched         int     `json:"mismatched"`
	UnmatchedLedger    int     `json:"unmatched_ledger"`
	UnmatchedDocuments int     `json:"unmatched_documents"`
	MatchRate          float64 `json:"match_rate"`
}

// BuildVendorSummaries derives per-vendor counts from a finished result,
// sorted by vendor name. Matched and mismatched totals are attributed to
// the ledger side's normalized vendor; each record's presence is tallied
// under its own vendor, so a cross-vendor pair contributes to two rows.
func BuildVendorSummaries(result *ReconciliationResult) []VendorSummary {
	byVendor := make(map[string]*VendorSummary)
	get := func(vendor string) *VendorSummary {
		vs, ok := byVendor[vendor]
		if !ok {
			vs = &VendorSummary{Vendor: vendor}
			byVendor[vendor] = vs
		}
		return vs
	}

	for _, pair := range result.Matched {
		vs := get(pair.Ledger.NormalizedVendor)
		vs.Matched++
		vs.LedgerCount++
		get(pair.Document.NormalizedVendor).DocumentCount++
	}
	for _, pair := range result.Mismatched {
		vs := get(pair.Ledger.NormalizedVendor)
		vs.Mismatched++
		vs.LedgerCount++
		get(pair.Document.NormalizedVendor).DocumentCount++
	}
	for _, rec := range result.UnmatchedLedger {
		vs := get(rec.NormalizedVendor)
		vs.UnmatchedLedger++
		vs.LedgerCount++
	}
	for _, rec := range result.UnmatchedDocuments {
		vs := get(rec.NormalizedVendor)
		vs.UnmatchedDocuments++
		vs.DocumentCount++
	}

	summaries := make([]VendorSummary, 0, len(byVendor))
	for _, vs := range byVendor {
		ledgerCount := vs.LedgerCount
		if ledgerCount < 1 {
			ledgerCount = 1
		}
		vs.MatchRate = 100 * float64(vs.Matched) / float64(ledgerCount)
		summaries = append(summaries, *vs)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Vendor < summaries[j].Vendor
	})
	return summaries
}
