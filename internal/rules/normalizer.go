// Package rules contains the stateless matching rules: canonicalization,
// amount comparison, name similarity and confidence scoring. Every rule is
// deterministic and free of I/O so the components compose into a pure engine.
package rules

import (
	"regexp"
	"strings"
)

var (
	// Document-number markers seen across ledger exports and extracted
	// documents. Ordered longest-first so INVOICE wins over INV.
	identifierMarker = regexp.MustCompile(`^(?:INVOICE|INV|DOCUMENT|DOC|FAKTURA|№|NO\.?|#)\s*[-:]?\s*`)

	nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// Legal-entity suffixes in Bulgarian and Latin forms, as emitted by the
// document extractors. Only stripped as whole trailing words.
var legalEntitySuffixes = []string{
	"ЕООД", "EOOD", "ЕАД", "EAD", "ООД", "OOD", "АД", "AD",
	"LIMITED", "LTD", "LLC", "INC", "CORP",
}

// NormalizeIdentifier canonicalizes an invoice number for equality
// comparison: uppercases, strips document-number markers and keeps only
// letters and digits. The marker pass and the character pass run until a
// fixpoint, so the function is idempotent. Empty or marker-only input
// normalizes to the empty string, which never matches anything.
func NormalizeIdentifier(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for {
		next := identifierMarker.ReplaceAllString(s, "")
		next = nonAlphanumeric.ReplaceAllString(next, "")
		if next == s {
			return s
		}
		s = next
	}
}

// NormalizeName canonicalizes a counterparty name: uppercases, collapses
// whitespace and strips trailing legal-entity suffixes, including any
// punctuation adjacent to a stripped suffix. Trailing punctuation that is
// not part of a suffix is left alone. Works on Latin and Cyrillic input
// alike; there is no language-specific behavior beyond the suffix list.
func NormalizeName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = whitespaceRun.ReplaceAllString(s, " ")
	for {
		trimmed := strings.TrimRight(s, " .,")
		matched := false
		for _, suffix := range legalEntitySuffixes {
			if strings.HasSuffix(trimmed, " "+suffix) {
				s = strings.TrimRight(strings.TrimSuffix(trimmed, " "+suffix), " .,")
				matched = true
				break
			}
		}
		if !matched {
			return s
		}
	}
}
