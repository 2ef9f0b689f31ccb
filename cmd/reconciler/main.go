package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invoice-reconciliation/internal/domain"
	"invoice-reconciliation/internal/gateway"
	"invoice-reconciliation/internal/usecase"
)

// report is the CLI's output envelope around the engine result.
type report struct {
	RunID       string                       `json:"run_id"`
	GeneratedAt string                       `json:"generated_at"`
	Result      *domain.ReconciliationResult `json:"result"`
	ByVendor    []domain.VendorSummary       `json:"by_vendor"`
}

func main() {
	// Define command-line flags
	ledgerFile := flag.String("ledger", "", "Path to the ledger export CSV file (required)")
	documentsStr := flag.String("documents", "", "Comma-separated list of paths to document-extraction JSON datasets (required)")
	toleranceStr := flag.String("tolerance", "0.01", "Absolute amount tolerance in currency units")
	minConfidence := flag.Float64("min-confidence", 50, "Minimum confidence for a match to be accepted")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Validate required flags
	if *ledgerFile == "" || *documentsStr == "" {
		fmt.Println("Error: flags -ledger and -documents are required.")
		flag.Usage()
		os.Exit(1)
	}

	tolerance, err := decimal.NewFromString(*toleranceStr)
	if err != nil {
		log.Fatal().Err(err).Str("tolerance", *toleranceStr).Msg("invalid tolerance")
	}

	documentFiles := strings.Split(*documentsStr, ",")

	// --- Dependency Injection (Wiring the application) ---
	// Manual wiring: repository on the outside, engine in the middle,
	// presentation at the end.

	cfg := usecase.DefaultConfig()
	cfg.Tolerance = tolerance
	cfg.MinConfidence = *minConfidence

	repo := gateway.NewFileInvoiceRepository(log)
	reconciliationUseCase := usecase.NewReconciliationUseCase(repo, cfg)

	// --- Execute the Usecase ---
	result, err := reconciliationUseCase.Reconcile(context.Background(), *ledgerFile, documentFiles)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliation failed")
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Result:      result,
		ByVendor:    domain.BuildVendorSummaries(result),
	}, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate JSON report")
	}

	fmt.Println(string(output))
}
