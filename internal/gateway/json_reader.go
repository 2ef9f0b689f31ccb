package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"invoice-reconciliation/internal/domain"
)

// documentDataset mirrors the output format of the document extraction
// pipeline: a flat list of extracted invoices.
type documentDataset struct {
	AllInvoices []documentInvoice `json:"all_invoices"`
}

type documentInvoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	Vendor        string          `json:"vendor"`
	TotalAmount   json.RawMessage `json:"total_amount"`
	Currency      string          `json:"currency"`
	InvoiceDate   string          `json:"invoice_date"`
	SourceFile    string          `json:"source_file"`
}

// GetDocumentInvoices reads and parses the document-extraction JSON
// datasets. Extraction emits amounts as JSON numbers or numeric strings;
// a null, empty or missing amount yields a record with an absent amount,
// while a non-numeric one is a validation error.
func (r *FileInvoiceRepository) GetDocumentInvoices(ctx context.Context, paths []string) ([]domain.InvoiceRecord, error) {
	var allRecords []domain.InvoiceRecord

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open document dataset %s: %w", path, err)
		}

		var dataset documentDataset
		if err := json.Unmarshal(data, &dataset); err != nil {
			return nil, fmt.Errorf("failed to decode document dataset %s: %w", path, err)
		}

		source := filepath.Base(path)
		for i, inv := range dataset.AllInvoices {
			amount, err := parseJSONAmount(inv.TotalAmount)
			if err != nil {
				return nil, &ValidationError{Source: source, Record: i, Field: "total_amount", Err: err}
			}

			// Prefer the originating document for traceability; the
			// dataset file is the fallback.
			origin := inv.SourceFile
			if origin == "" {
				origin = source
			}

			allRecords = append(allRecords, newRecord(
				domain.OriginDocument,
				inv.InvoiceNumber,
				inv.Vendor,
				amount,
				inv.Currency,
				inv.InvoiceDate,
				fmt.Sprintf("%s#%d", origin, len(allRecords)),
			))
		}
		r.log.Info().Str("file", source).Int("records", len(dataset.AllInvoices)).Msg("loaded document invoices")
	}

	return allRecords, nil
}

// parseJSONAmount accepts a JSON number, a numeric string, null or nothing.
func parseJSONAmount(raw json.RawMessage) (decimal.NullDecimal, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.NullDecimal{}, nil
	}

	text := string(raw)
	if text[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return decimal.NullDecimal{}, err
		}
		text = unquoted
	}
	return parseOptionalAmount(text)
}
